package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hyunwoo-dev/storefront-backend/api/middleware"
	cartsvc "github.com/hyunwoo-dev/storefront-backend/internal/cart"
	"github.com/hyunwoo-dev/storefront-backend/pkg/config"
)

type stubCartService struct {
	cart *cartsvc.CartDTO
	err  error

	resetUserID    string
	addedItem      cartsvc.Line
	removedProduct string
	changedProduct string
	changedCount   int
}

func (s *stubCartService) Init(ctx context.Context, userID string) (*cartsvc.CartDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) Reset(ctx context.Context, userID string) error {
	s.resetUserID = userID
	return s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID string, item cartsvc.Line) (*cartsvc.CartDTO, error) {
	s.addedItem = item
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID string) (*cartsvc.CartDTO, error) {
	s.removedProduct = productID
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) ChangeItemCount(ctx context.Context, userID, productID string, count int) (*cartsvc.CartDTO, error) {
	s.changedProduct = productID
	s.changedCount = count
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func withUser(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
}

func TestCartFetchRequiresUserContext(t *testing.T) {
	handler := CartFetch(&stubCartService{cart: &cartsvc.CartDTO{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartFetchReturnsCart(t *testing.T) {
	handler := CartFetch(&stubCartService{cart: &cartsvc.CartDTO{Items: []cartsvc.Line{}}}, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartAddItemEnforcesMaxCount(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{}}
	handler := CartAddItem(svc, config.CartConfig{MaxItemCount: 10}, nil)

	body := []byte(`{"product_id":"5","title":"Keyboard","price":"2000","count":11}`)
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.addedItem.ProductID != "" {
		t.Fatalf("service must not be called when the count exceeds the maximum")
	}
}

func TestCartAddItemForwardsLine(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{}}
	handler := CartAddItem(svc, config.CartConfig{MaxItemCount: 1000}, nil)

	body := []byte(`{"product_id":"5","title":"Keyboard","price":"2000","image_url":"https://cdn.example.com/kb.png","count":2}`)
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.addedItem.ProductID != "5" || svc.addedItem.Count != 2 {
		t.Fatalf("unexpected line %+v", svc.addedItem)
	}
}

func TestCartItemRoutesUseURLParam(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{}}

	router := chi.NewRouter()
	router.Delete("/items/{productId}", CartRemoveItem(svc, nil))
	router.Patch("/items/{productId}", CartChangeCount(svc, config.CartConfig{MaxItemCount: 1000}, nil))

	req := withUser(httptest.NewRequest(http.MethodDelete, "/items/7", nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.removedProduct != "7" {
		t.Fatalf("expected remove for product 7 got %q", svc.removedProduct)
	}

	req = withUser(httptest.NewRequest(http.MethodPatch, "/items/7", bytes.NewReader([]byte(`{"count":4}`))))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.changedProduct != "7" || svc.changedCount != 4 {
		t.Fatalf("unexpected change %q %d", svc.changedProduct, svc.changedCount)
	}
}

func TestCartChangeCountRejectsZero(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{}}

	router := chi.NewRouter()
	router.Patch("/items/{productId}", CartChangeCount(svc, config.CartConfig{MaxItemCount: 1000}, nil))

	req := withUser(httptest.NewRequest(http.MethodPatch, "/items/7", bytes.NewReader([]byte(`{"count":0}`))))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartClearResets(t *testing.T) {
	svc := &stubCartService{}
	handler := CartClear(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.resetUserID != "user-1" {
		t.Fatalf("expected reset for user-1 got %q", svc.resetUserID)
	}
}
