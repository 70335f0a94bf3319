package firestore

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pfirestore "github.com/the-dna-lab/catalog-api/internal/platform/firestore"
)

// notFound builds a repository not-found error for empty query results,
// matching the categorisation WrapError applies to missing documents.
func notFound(op, msg string) error {
	return pfirestore.WrapError(op, status.Error(codes.NotFound, msg))
}
