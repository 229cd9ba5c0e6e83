package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/hyunwoo-dev/storefront-backend/api/middleware"
	"github.com/hyunwoo-dev/storefront-backend/api/responses"
	"github.com/hyunwoo-dev/storefront-backend/api/validators"
	cartsvc "github.com/hyunwoo-dev/storefront-backend/internal/cart"
	checkoutsvc "github.com/hyunwoo-dev/storefront-backend/internal/checkout"
	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
	"github.com/hyunwoo-dev/storefront-backend/pkg/logger"
)

type purchaseRequest struct {
	ReceiverName    string  `json:"receiver_name" validate:"required"`
	ShippingAddress string  `json:"shipping_address" validate:"required"`
	Phone           string  `json:"phone" validate:"required"`
	Requests        *string `json:"requests,omitempty"`
	PaymentMethod   string  `json:"payment_method" validate:"required"`
}

func checkoutUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}

// Checkout snapshots the cart into an order and clears the cart on success.
func Checkout(svc checkoutsvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := checkoutUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body purchaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.MakePurchase(r.Context(), userID, checkoutsvc.PurchaseInput{
			ReceiverName:    body.ReceiverName,
			ShippingAddress: body.ShippingAddress,
			Phone:           body.Phone,
			Requests:        body.Requests,
			PaymentMethod:   body.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The order row is already committed. A failed cart reset leaves a
		// stale cart behind but must not fail the purchase.
		if err := carts.Reset(r.Context(), userID.String()); err != nil && logg != nil {
			logg.Error(r.Context(), "cart reset after checkout failed", err)
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderList returns the user's purchase history, newest first.
func OrderList(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := checkoutUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListPurchases(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}
