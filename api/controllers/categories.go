package controllers

import (
	"net/http"

	"github.com/hyunwoo-dev/storefront-backend/api/responses"
	productsvc "github.com/hyunwoo-dev/storefront-backend/internal/products"
)

// CategoryList serves the fixed category catalog.
func CategoryList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, productsvc.Categories())
	}
}
