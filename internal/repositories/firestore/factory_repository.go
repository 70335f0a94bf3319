package firestore

import (
	"context"
	"errors"

	"github.com/the-dna-lab/catalog-api/internal/domain"
	pfirestore "github.com/the-dna-lab/catalog-api/internal/platform/firestore"
)

const factoriesCollection = "factories"

type factoryDocument struct {
	Name string `firestore:"name"`
	Code string `firestore:"code,omitempty"`
}

// FactoryRepository implements repositories.FactoryRepository on Firestore.
type FactoryRepository struct {
	factories *pfirestore.BaseRepository[factoryDocument]
}

// NewFactoryRepository constructs a Firestore-backed factory repository.
func NewFactoryRepository(provider *pfirestore.Provider) (*FactoryRepository, error) {
	if provider == nil {
		return nil, errors.New("factory repository requires firestore provider")
	}
	return &FactoryRepository{
		factories: pfirestore.NewBaseRepository[factoryDocument](provider, factoriesCollection, nil, nil),
	}, nil
}

func (r *FactoryRepository) FindByID(ctx context.Context, id string) (domain.Factory, error) {
	doc, err := r.factories.Get(ctx, id)
	if err != nil {
		return domain.Factory{}, err
	}
	return domain.Factory{
		ID:   doc.ID,
		Name: doc.Data.Name,
		Code: doc.Data.Code,
	}, nil
}
