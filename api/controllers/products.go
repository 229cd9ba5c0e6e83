package controllers

import (
	"math"
	"net/http"
	"strings"

	"github.com/hyunwoo-dev/storefront-backend/api/responses"
	"github.com/hyunwoo-dev/storefront-backend/api/validators"
	productsvc "github.com/hyunwoo-dev/storefront-backend/internal/products"
	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
	"github.com/hyunwoo-dev/storefront-backend/pkg/logger"
	"github.com/hyunwoo-dev/storefront-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// maxUploadBytes caps the multipart payload on product registration.
const maxUploadBytes = 32 << 20

// ProductList serves one catalog page for the requested filter.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "page_size", 0, 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minPrice, err := validators.ParseQueryDecimal(r, "min_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := productsvc.Filter{
			CategoryID: strings.TrimSpace(r.URL.Query().Get("category_id")),
			Title:      r.URL.Query().Get("title"),
			MinPrice:   minPrice,
			MaxPrice:   maxPrice,
		}

		result, err := svc.FetchProducts(r.Context(), filter, pagination.Params{
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductCreate registers a product from a multipart payload carrying the
// fields plus the image file.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a decimal number"))
			return
		}

		var description *string
		if raw := strings.TrimSpace(r.FormValue("description")); raw != "" {
			description = &raw
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product image is required"))
			return
		}
		defer file.Close()

		input := productsvc.AddProductInput{
			Title:       r.FormValue("title"),
			Price:       price,
			Description: description,
			CategoryID:  strings.TrimSpace(r.FormValue("category_id")),
			Image: &productsvc.ImageUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			},
		}

		product, err := svc.AddProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}
