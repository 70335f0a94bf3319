package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/the-dna-lab/catalog-api/internal/services"
)

func TestNewPubSubSyncPublisherRequiresTopic(t *testing.T) {
	if _, err := NewPubSubSyncPublisher(nil); err == nil {
		t.Fatal("expected error for nil topic")
	}
}

func TestPublishProductSyncUninitialised(t *testing.T) {
	p := &PubSubSyncPublisher{
		marshal: func(any) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	if _, err := p.PublishProductSync(context.Background(), services.ProductSyncMessage{ProductID: "p-1"}); err == nil {
		t.Fatal("expected error when publisher has no topic")
	}
}
