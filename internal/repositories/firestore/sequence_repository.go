package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pfirestore "github.com/the-dna-lab/catalog-api/internal/platform/firestore"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

const sequencesCollection = "sequences"

// sequenceMaxValue caps every sequence at four digits; product codes embed
// the value through Pad4 and a fifth digit would break the code format.
const sequenceMaxValue = 9999

type sequenceDocument struct {
	CurrentValue int64     `firestore:"currentValue"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

// SequenceRepository implements repositories.SequenceRepository backed by
// Firestore transactions. Each sequence is one document; concurrent writers
// serialise on the transactional read-modify-write so a value is never
// handed out twice.
type SequenceRepository struct {
	provider  *pfirestore.Provider
	sequences *pfirestore.BaseRepository[sequenceDocument]
}

// NewSequenceRepository constructs a Firestore-backed sequence repository.
func NewSequenceRepository(provider *pfirestore.Provider) (*SequenceRepository, error) {
	if provider == nil {
		return nil, errors.New("sequence repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[sequenceDocument](provider, sequencesCollection, nil, nil)
	return &SequenceRepository{
		provider:  provider,
		sequences: base,
	}, nil
}

// Next atomically increments the sequence and returns the new value. When
// the sequence document does not exist yet, seed is invoked to compute the
// starting point (typically a scan over existing codes) and the first value
// handed out is seed+1.
func (r *SequenceRepository) Next(ctx context.Context, sequenceID string, seed repositories.SeedFunc) (int64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("sequence repository not initialised")
	}
	id := strings.TrimSpace(sequenceID)
	if id == "" {
		return 0, repositories.NewSequenceError(repositories.SequenceErrorInvalidInput, "sequence id is required", nil)
	}

	now := time.Now().UTC()
	var nextValue int64

	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref, err := r.sequences.DocumentRef(ctx, id)
		if err != nil {
			return err
		}

		snapshot, err := tx.Get(ref)
		switch status.Code(err) {
		case codes.NotFound:
			var start int64
			if seed != nil {
				start, err = seed(ctx)
				if err != nil {
					return repositories.NewSequenceError(repositories.SequenceErrorSeedFailed, fmt.Sprintf("seed sequence %s: %v", id, err), err)
				}
			}
			if start+1 > sequenceMaxValue {
				return repositories.NewSequenceError(repositories.SequenceErrorExhausted, fmt.Sprintf("sequence %s exceeded max value %d", id, sequenceMaxValue), nil)
			}
			doc := sequenceDocument{
				CurrentValue: start + 1,
				UpdatedAt:    now,
			}
			if err := tx.Create(ref, doc); err != nil {
				return err
			}
			nextValue = doc.CurrentValue
			return nil
		case codes.OK:
			// proceed
		default:
			return err
		}

		var doc sequenceDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return fmt.Errorf("firestore sequences decode %s: %w", id, err)
		}

		if doc.CurrentValue+1 > sequenceMaxValue {
			return repositories.NewSequenceError(repositories.SequenceErrorExhausted, fmt.Sprintf("sequence %s exceeded max value %d", id, sequenceMaxValue), nil)
		}

		doc.CurrentValue++
		doc.UpdatedAt = now

		if err := tx.Set(ref, doc, firestore.MergeAll); err != nil {
			return err
		}
		nextValue = doc.CurrentValue
		return nil
	})
	if err != nil {
		var seqErr *repositories.SequenceError
		if errors.As(err, &seqErr) {
			return 0, seqErr
		}
		return 0, pfirestore.WrapError("sequences.next", err)
	}
	return nextValue, nil
}
