package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

// ErrSequenceInvalidInput indicates the caller supplied invalid sequence parameters.
var ErrSequenceInvalidInput = errors.New("sequence: invalid input")

// SequenceServiceDeps bundles collaborators required to construct a sequence service instance.
type SequenceServiceDeps struct {
	Sequences repositories.SequenceRepository
	Products  repositories.ProductRepository
}

type sequenceService struct {
	sequences repositories.SequenceRepository
	products  repositories.ProductRepository
}

// NewSequenceService constructs the service that allocates code sequence
// numbers. Fresh sequences are seeded inside the repository transaction
// from the highest suffix already present on stored products, so generated
// codes continue where existing data left off.
func NewSequenceService(deps SequenceServiceDeps) (SequenceService, error) {
	if deps.Sequences == nil {
		return nil, errors.New("sequence service: sequence repository is required")
	}
	if deps.Products == nil {
		return nil, errors.New("sequence service: product repository is required")
	}
	return &sequenceService{
		sequences: deps.Sequences,
		products:  deps.Products,
	}, nil
}

func (s *sequenceService) NextSequence(ctx context.Context, attr, prefix string) (int64, error) {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return 0, fmt.Errorf("%w: attr is required", ErrSequenceInvalidInput)
	}
	if strings.TrimSpace(prefix) == "" {
		return 0, fmt.Errorf("%w: prefix is required", ErrSequenceInvalidInput)
	}

	sequenceID := attr + ":" + prefix
	seed := func(ctx context.Context) (int64, error) {
		return s.products.MaxSequence(ctx, attr, prefix)
	}
	return s.sequences.Next(ctx, sequenceID, seed)
}
