package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
)

// Service exposes per-user cart operations. Every mutation is a read-modify-
// write against the stored snapshot, serialized per user, and the snapshot it
// persists is the same one it returns.
type Service interface {
	Init(ctx context.Context, userID string) (*CartDTO, error)
	Reset(ctx context.Context, userID string) error
	AddItem(ctx context.Context, userID string, item Line) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID string) (*CartDTO, error)
	ChangeItemCount(ctx context.Context, userID, productID string, count int) (*CartDTO, error)
}

type service struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService builds a cart service over the provided store.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &service{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// userLock returns the mutex serializing mutations for one user.
func (s *service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func requireUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return nil
}

// Init loads the persisted cart and recomputes aggregates. An empty user id
// is a no-op returning an empty cart, nothing is read or written.
func (s *service) Init(ctx context.Context, userID string) (*CartDTO, error) {
	if strings.TrimSpace(userID) == "" {
		return newCartDTO(&Document{}), nil
	}

	doc, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart: load")
	}
	return newCartDTO(doc), nil
}

// Reset clears the persisted cart.
func (s *service) Reset(ctx context.Context, userID string) error {
	if err := requireUserID(userID); err != nil {
		return err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart: reset")
	}
	return nil
}

// AddItem merges by product id: an existing line gains count, otherwise the
// line is appended.
func (s *service) AddItem(ctx context.Context, userID string, item Line) (*CartDTO, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(item.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if item.Count <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "count must be positive")
	}
	if item.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	return s.mutate(ctx, userID, func(doc *Document) {
		for i := range doc.Items {
			if doc.Items[i].ProductID == item.ProductID {
				doc.Items[i].Count += item.Count
				return
			}
		}
		doc.Items = append(doc.Items, item)
	})
}

// RemoveItem deletes the matching line; removing an absent id is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, productID string) (*CartDTO, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, func(doc *Document) {
		for i := range doc.Items {
			if doc.Items[i].ProductID == productID {
				doc.Items = append(doc.Items[:i], doc.Items[i+1:]...)
				return
			}
		}
	})
}

// ChangeItemCount sets the absolute count on the matching line. No lower
// bound is enforced here; the API layer owns the configured maximum.
func (s *service) ChangeItemCount(ctx context.Context, userID, productID string, count int) (*CartDTO, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, func(doc *Document) {
		for i := range doc.Items {
			if doc.Items[i].ProductID == productID {
				doc.Items[i].Count = count
				return
			}
		}
	})
}

// mutate runs one serialized read-modify-write cycle and persists the exact
// snapshot it returns.
func (s *service) mutate(ctx context.Context, userID string, apply func(doc *Document)) (*CartDTO, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart: load")
	}

	apply(doc)

	if err := s.store.Save(ctx, userID, doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart: save")
	}
	return newCartDTO(doc), nil
}
