package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/the-dna-lab/catalog-api/internal/codegen"
	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

// CategoryLookupFromRepository adapts the category repository to the code
// generator's lookup contract. Ids arriving from payloads may be numbers
// or strings, so they are stringified before the repository call.
func CategoryLookupFromRepository(repo repositories.CategoryRepository) codegen.CategoryLookup {
	return categoryLookup{repo: repo}
}

// FactoryLookupFromRepository adapts the factory repository to the code
// generator's lookup contract.
func FactoryLookupFromRepository(repo repositories.FactoryRepository) codegen.FactoryLookup {
	return factoryLookup{repo: repo}
}

type categoryLookup struct {
	repo repositories.CategoryRepository
}

func (l categoryLookup) CategoryByID(ctx context.Context, id any) (*domain.Category, error) {
	key, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	cat, err := l.repo.FindByID(ctx, key)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

type factoryLookup struct {
	repo repositories.FactoryRepository
}

func (l factoryLookup) FactoryByID(ctx context.Context, id any) (*domain.Factory, error) {
	key, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	fac, err := l.repo.FindByID(ctx, key)
	if err != nil {
		return nil, err
	}
	return &fac, nil
}

func lookupID(id any) (string, error) {
	switch v := id.(type) {
	case string:
		if v == "" {
			return "", errors.New("lookup: empty id")
		}
		return v, nil
	case int:
		return fmt.Sprintf("%d", v), nil
	case int64:
		return fmt.Sprintf("%d", v), nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", fmt.Errorf("lookup: unsupported id type %T", id)
	}
}
