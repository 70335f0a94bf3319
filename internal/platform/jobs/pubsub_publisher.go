package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"

	"github.com/the-dna-lab/catalog-api/internal/services"
)

// PubSubSyncPublisher publishes product change events to a Pub/Sub topic.
// The storefront revalidation worker consumes them to refresh its cache.
type PubSubSyncPublisher struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

// NewPubSubSyncPublisher constructs a Pub/Sub backed product sync publisher.
func NewPubSubSyncPublisher(topic *pubsub.Topic) (*PubSubSyncPublisher, error) {
	if topic == nil {
		return nil, errors.New("pubsub sync publisher: topic is required")
	}
	return &PubSubSyncPublisher{
		topic:   topic,
		marshal: json.Marshal,
	}, nil
}

// PublishProductSync enqueues a product sync message on the configured topic.
func (p *PubSubSyncPublisher) PublishProductSync(ctx context.Context, message services.ProductSyncMessage) (string, error) {
	if p == nil || p.topic == nil {
		return "", errors.New("pubsub sync publisher: not initialised")
	}

	data, err := p.marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal product sync: %w", err)
	}

	attrs := make(map[string]string)
	setAttr(attrs, "productId", message.ProductID)
	setAttr(attrs, "slug", message.Slug)
	setAttr(attrs, "action", message.Action)

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})

	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish product sync: %w", err)
	}
	return id, nil
}

func setAttr(attrs map[string]string, key string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}
