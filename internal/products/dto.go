package product

import (
	"strconv"
	"time"

	"github.com/hyunwoo-dev/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the catalog listing payload returned to clients. Identifiers
// travel as strings even though they are assigned numerically.
type ProductDTO struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	Description  *string         `json:"description,omitempty"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ImageURL     string          `json:"image_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductPageDTO is one page of a filtered catalog snapshot.
type ProductPageDTO struct {
	Products    []ProductDTO `json:"products"`
	TotalCount  int          `json:"total_count"`
	CurrentPage int          `json:"current_page"`
	HasNextPage bool         `json:"has_next_page"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:           strconv.FormatInt(product.ID, 10),
		Title:        product.Title,
		Price:        product.Price,
		Description:  product.Description,
		CategoryID:   product.CategoryID,
		CategoryName: product.CategoryName,
		ImageURL:     product.ImageURL,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}
