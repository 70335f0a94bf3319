package firestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/the-dna-lab/catalog-api/internal/domain"
	pfirestore "github.com/the-dna-lab/catalog-api/internal/platform/firestore"
	"github.com/the-dna-lab/catalog-api/internal/platform/pagination"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

const productsCollection = "products"

// ProductRepository implements repositories.ProductRepository on Firestore.
// Products are stored as loose maps so the generator's payloads round-trip
// without a schema migration for every attribute change.
type ProductRepository struct {
	provider *pfirestore.Provider
	products *pfirestore.BaseRepository[map[string]any]
}

// NewProductRepository constructs a Firestore-backed product repository.
func NewProductRepository(provider *pfirestore.Provider) (*ProductRepository, error) {
	if provider == nil {
		return nil, errors.New("product repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[map[string]any](provider, productsCollection, pfirestore.MapEncoder[map[string]any](), pfirestore.MapDecoder())
	return &ProductRepository{
		provider: provider,
		products: base,
	}, nil
}

func (r *ProductRepository) Insert(ctx context.Context, id string, data map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("product repository: id is required")
	}
	ref, err := r.products.DocumentRef(ctx, id)
	if err != nil {
		return err
	}
	if _, err := ref.Create(ctx, data); err != nil {
		return pfirestore.WrapError("products.insert", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, data map[string]any) error {
	_, err := r.products.Set(ctx, id, data)
	return err
}

// Patch merges only the provided fields into the stored document.
func (r *ProductRepository) Patch(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	_, err := r.products.Set(ctx, id, fields, firestore.MergeAll)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ref, err := r.products.DocumentRef(ctx, id)
	if err != nil {
		return err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return pfirestore.WrapError("products.delete", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (repositories.ProductRecord, error) {
	doc, err := r.products.Get(ctx, id)
	if err != nil {
		return repositories.ProductRecord{}, err
	}
	return repositories.ProductRecord{ID: doc.ID, Data: doc.Data}, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (repositories.ProductRecord, error) {
	return r.findOneByField(ctx, "slug", slug)
}

func (r *ProductRepository) FindByUUID(ctx context.Context, uuid string) (repositories.ProductRecord, error) {
	return r.findOneByField(ctx, "uuid", uuid)
}

// FindBySizeStockID resolves the product embedding the size-stock entry via
// the size_stock_ids index array maintained by the write service.
func (r *ProductRepository) FindBySizeStockID(ctx context.Context, sizeID string) (repositories.ProductRecord, error) {
	docs, err := r.products.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("size_stock_ids", "array-contains", sizeID).Limit(1)
	})
	if err != nil {
		return repositories.ProductRecord{}, err
	}
	if len(docs) == 0 {
		return repositories.ProductRecord{}, notFound("products.find_by_size_stock", fmt.Sprintf("no product holds size stock %s", sizeID))
	}
	return repositories.ProductRecord{ID: docs[0].ID, Data: docs[0].Data}, nil
}

func (r *ProductRepository) List(ctx context.Context, filter repositories.ProductListFilter) (domain.CursorPage[repositories.ProductRecord], error) {
	pageSize := filter.Pagination.PageSize
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	if pageSize > pagination.DefaultMaxPageSize {
		pageSize = pagination.DefaultMaxPageSize
	}

	cursor, err := pagination.DecodeToken(filter.Pagination.PageToken)
	if err != nil {
		return domain.CursorPage[repositories.ProductRecord]{}, err
	}

	docs, err := r.products.Query(ctx, func(q firestore.Query) firestore.Query {
		if filter.Status != "" {
			q = q.Where("status", "==", filter.Status)
		}
		if filter.PublishedOnly {
			q = q.Where("publishedAt", "!=", nil)
		}
		q = q.OrderBy(firestore.DocumentID, firestore.Asc)
		if len(cursor.StartAfter) > 0 {
			q = q.StartAfter(cursor.StartAfter...)
		}
		return q.Limit(pageSize + 1)
	})
	if err != nil {
		return domain.CursorPage[repositories.ProductRecord]{}, err
	}

	page := domain.CursorPage[repositories.ProductRecord]{}
	hasMore := len(docs) > pageSize
	if hasMore {
		docs = docs[:pageSize]
	}
	for _, doc := range docs {
		page.Items = append(page.Items, repositories.ProductRecord{ID: doc.ID, Data: doc.Data})
	}
	if hasMore && len(docs) > 0 {
		token, err := pagination.EncodeToken(pagination.Cursor{StartAfter: []any{docs[len(docs)-1].ID}})
		if err != nil {
			return domain.CursorPage[repositories.ProductRecord]{}, err
		}
		page.NextPageToken = token
	}
	return page, nil
}

// MaxSequence finds the highest 4-digit suffix used under attr values with
// the given prefix. Used to seed fresh sequence counters so generated codes
// continue from where the existing data left off.
func (r *ProductRepository) MaxSequence(ctx context.Context, attr, prefix string) (int64, error) {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return 0, errors.New("product repository: attr is required")
	}

	docs, err := r.products.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.
			Where(attr, ">=", prefix).
			Where(attr, "<", prefix+"\uf8ff").
			OrderBy(attr, firestore.Desc).
			Limit(1)
	})
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	value, _ := docs[0].Data[attr].(string)
	if !strings.HasPrefix(value, prefix) {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimLeft(value[len(prefix):], "0"), 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (r *ProductRepository) findOneByField(ctx context.Context, field, value string) (repositories.ProductRecord, error) {
	docs, err := r.products.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where(field, "==", value).Limit(1)
	})
	if err != nil {
		return repositories.ProductRecord{}, err
	}
	if len(docs) == 0 {
		return repositories.ProductRecord{}, notFound("products.find_by_"+field, fmt.Sprintf("no product with %s %q", field, value))
	}
	return repositories.ProductRecord{ID: docs[0].ID, Data: docs[0].Data}, nil
}
