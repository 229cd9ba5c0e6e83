package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyunwoo-dev/storefront-backend/api/middleware"
	"github.com/hyunwoo-dev/storefront-backend/api/responses"
	"github.com/hyunwoo-dev/storefront-backend/api/validators"
	cartsvc "github.com/hyunwoo-dev/storefront-backend/internal/cart"
	"github.com/hyunwoo-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
	"github.com/hyunwoo-dev/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type addCartItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Title     string          `json:"title" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Count     int             `json:"count" validate:"required,min=1"`
}

type changeCartCountRequest struct {
	Count int `json:"count" validate:"required,min=1"`
}

func cartUserID(r *http.Request) (string, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return userID, nil
}

// CartFetch returns the user's cart with recomputed aggregates.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Init(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// CartClear empties the user's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reset(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// CartAddItem merges the posted line into the cart. The configured per-line
// maximum is enforced here, not in the service.
func CartAddItem(svc cartsvc.Service, cfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkMaxCount(body.Count, cfg); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), userID, cartsvc.Line{
			ProductID: body.ProductID,
			Title:     body.Title,
			Price:     body.Price,
			ImageURL:  body.ImageURL,
			Count:     body.Count,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// CartRemoveItem deletes one line; removing an absent product succeeds.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), userID, chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// CartChangeCount sets the absolute quantity on one line.
func CartChangeCount(svc cartsvc.Service, cfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body changeCartCountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkMaxCount(body.Count, cfg); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.ChangeItemCount(r.Context(), userID, chi.URLParam(r, "productId"), body.Count)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

func checkMaxCount(count int, cfg config.CartConfig) error {
	if cfg.MaxItemCount > 0 && count > cfg.MaxItemCount {
		return pkgerrors.New(pkgerrors.CodeValidation, "count exceeds the allowed maximum").
			WithDetails(map[string]any{"max": cfg.MaxItemCount})
	}
	return nil
}
