package firestore

import (
	"context"
	"errors"

	"github.com/the-dna-lab/catalog-api/internal/domain"
	pfirestore "github.com/the-dna-lab/catalog-api/internal/platform/firestore"
)

const categoriesCollection = "categories"

type categoryDocument struct {
	Name         string `firestore:"name"`
	Code         string `firestore:"code,omitempty"`
	CategoryCode string `firestore:"category_code,omitempty"`
	HSCode       string `firestore:"hs_code,omitempty"`
}

// CategoryRepository implements repositories.CategoryRepository on Firestore.
type CategoryRepository struct {
	categories *pfirestore.BaseRepository[categoryDocument]
}

// NewCategoryRepository constructs a Firestore-backed category repository.
func NewCategoryRepository(provider *pfirestore.Provider) (*CategoryRepository, error) {
	if provider == nil {
		return nil, errors.New("category repository requires firestore provider")
	}
	return &CategoryRepository{
		categories: pfirestore.NewBaseRepository[categoryDocument](provider, categoriesCollection, nil, nil),
	}, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (domain.Category, error) {
	doc, err := r.categories.Get(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}

	// Older records carried category_code instead of code.
	code := doc.Data.CategoryCode
	if code == "" {
		code = doc.Data.Code
	}
	return domain.Category{
		ID:     doc.ID,
		Name:   doc.Data.Name,
		Code:   code,
		HSCode: doc.Data.HSCode,
	}, nil
}
