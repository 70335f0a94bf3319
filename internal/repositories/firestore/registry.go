package firestore

import (
	"context"
	"errors"
	"time"

	pfirestore "github.com/the-dna-lab/catalog-api/internal/platform/firestore"
	"github.com/the-dna-lab/catalog-api/internal/repositories"

	cfirestore "cloud.google.com/go/firestore"
)

// Registry wires every Firestore-backed repository behind the
// repositories.Registry contract consumed by the service layer.
type Registry struct {
	provider   *pfirestore.Provider
	products   *ProductRepository
	categories *CategoryRepository
	factories  *FactoryRepository
	sequences  *SequenceRepository
	health     repositories.HealthRepository
}

var _ repositories.Registry = (*Registry)(nil)

// NewRegistry builds the repository registry on a shared Firestore provider.
func NewRegistry(provider *pfirestore.Provider) (*Registry, error) {
	if provider == nil {
		return nil, errors.New("registry requires firestore provider")
	}

	products, err := NewProductRepository(provider)
	if err != nil {
		return nil, err
	}
	categories, err := NewCategoryRepository(provider)
	if err != nil {
		return nil, err
	}
	factories, err := NewFactoryRepository(provider)
	if err != nil {
		return nil, err
	}
	sequences, err := NewSequenceRepository(provider)
	if err != nil {
		return nil, err
	}

	health, err := repositories.NewDependencyHealthRepository([]repositories.DependencyCheck{
		{
			Name:    "firestore",
			Timeout: 2 * time.Second,
			Check: func(ctx context.Context) error {
				_, err := provider.Client(ctx)
				return err
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &Registry{
		provider:   provider,
		products:   products,
		categories: categories,
		factories:  factories,
		sequences:  sequences,
		health:     health,
	}, nil
}

func (r *Registry) Close(ctx context.Context) error {
	return r.provider.Close(ctx)
}

func (r *Registry) Products() repositories.ProductRepository { return r.products }

func (r *Registry) Categories() repositories.CategoryRepository { return r.categories }

func (r *Registry) Factories() repositories.FactoryRepository { return r.factories }

func (r *Registry) Sequences() repositories.SequenceRepository { return r.sequences }

func (r *Registry) Health() repositories.HealthRepository { return r.health }

// RunInTx executes fn inside one Firestore transaction.
func (r *Registry) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.provider.RunTransaction(ctx, func(txCtx context.Context, _ *cfirestore.Transaction) error {
		return fn(txCtx)
	})
}
