package product

import (
	"context"
	"errors"

	"github.com/hyunwoo-dev/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListFiltered returns the full eligible set for the filter ordered by id
// descending. No LIMIT is applied; pagination slices the snapshot afterwards.
func (r *Repository) ListFiltered(ctx context.Context, filter Filter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Order("id DESC")

	if filter.HasCategory() {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if lower, upper, ok := filter.TitleRange(); ok {
		query = query.Where("title >= ? AND title <= ?", lower, upper)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MaxID returns the highest assigned product id, or 0 when the catalog is empty.
func (r *Repository) MaxID(ctx context.Context) (int64, error) {
	var row models.Product
	err := r.db.WithContext(ctx).Order("id DESC").Limit(1).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.ID, nil
}

// Insert writes a new product row.
func (r *Repository) Insert(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads one product.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
