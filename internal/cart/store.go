package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redisclient "github.com/hyunwoo-dev/storefront-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Store persists one cart document per user in a durable KV.
type Store interface {
	Load(ctx context.Context, userID string) (*Document, error)
	Save(ctx context.Context, userID string, doc *Document) error
	Delete(ctx context.Context, userID string) error
}

// Document is the persisted cart snapshot. Aggregates are not stored; they are
// recomputed from the lines on every load and mutation.
type Document struct {
	Items []Line `json:"items"`
}

// Line is one product-and-quantity pair.
type Line struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Count     int             `json:"count"`
}

// RedisStore keeps cart documents in Redis under the cart namespace.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore wraps the shared Redis client.
func NewRedisStore(client *redisclient.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client}, nil
}

// Load returns the stored document, or an empty one when the key is absent.
func (s *RedisStore) Load(ctx context.Context, userID string) (*Document, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(userID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("redis: load cart: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode cart document: %w", err)
	}
	return &doc, nil
}

// Save overwrites the stored document. Carts do not expire.
func (s *RedisStore) Save(ctx context.Context, userID string, doc *Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cart document: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(userID), payload, 0); err != nil {
		return fmt.Errorf("redis: save cart: %w", err)
	}
	return nil
}

// Delete removes the document.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(userID)); err != nil {
		return fmt.Errorf("redis: delete cart: %w", err)
	}
	return nil
}
