package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/hyunwoo-dev/storefront-backend/pkg/config"
	"github.com/hyunwoo-dev/storefront-backend/pkg/db"
	"github.com/hyunwoo-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
	"github.com/hyunwoo-dev/storefront-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// idAssignRetries bounds the optimistic retry loop when two registrations race
// for the same next identifier.
const idAssignRetries = 5

// Service exposes catalog browsing and product registration.
type Service interface {
	FetchProducts(ctx context.Context, filter Filter, params pagination.Params) (*ProductPageDTO, error)
	AddProduct(ctx context.Context, input AddProductInput) (*ProductDTO, error)
}

// ImageUpload carries the binary side effect of a registration.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// AddProductInput holds the validated payload to register a product.
type AddProductInput struct {
	Title       string
	Price       decimal.Decimal
	Description *string
	CategoryID  string
	Image       *ImageUpload
}

type imageUploader interface {
	Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	uploader imageUploader
	catalog  config.CatalogConfig
	objects  string
}

// NewService constructs the catalog service.
func NewService(repo *Repository, dbClient *db.Client, uploader imageUploader, catalog config.CatalogConfig, objectsPath string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("image uploader required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		uploader: uploader,
		catalog:  catalog,
		objects:  strings.Trim(objectsPath, "/"),
	}, nil
}

// FetchProducts executes the filter against the catalog and slices one page
// out of the snapshot. Each call re-runs the full query; pages are consistent
// within one call, not across calls.
func (s *service) FetchProducts(ctx context.Context, filter Filter, params pagination.Params) (*ProductPageDTO, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min price cannot exceed max price")
	}
	params = params.Normalize(s.catalog.DefaultPageSize, s.catalog.MaxPageSize)

	rows, err := s.repo.ListFiltered(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	// The title range only narrows by leading character; enforce true
	// substring semantics here before counting.
	filtered := rows[:0:0]
	for _, row := range rows {
		if filter.MatchesTitle(row.Title) {
			filtered = append(filtered, row)
		}
	}

	totalCount := len(filtered)
	window := pagination.Window(filtered, params)

	dtos := make([]ProductDTO, 0, len(window))
	for i := range window {
		dtos = append(dtos, *NewProductDTO(&window[i]))
	}

	return &ProductPageDTO{
		Products:    dtos,
		TotalCount:  totalCount,
		CurrentPage: params.Page,
		HasNextPage: params.HasNextPage(totalCount),
	}, nil
}

// AddProduct uploads the image, then assigns the next identifier and inserts
// the row inside one transaction. A concurrent registration racing for the
// same identifier surfaces as a unique violation and the read-compute-write
// cycle re-runs.
func (s *service) AddProduct(ctx context.Context, input AddProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	category, ok := CategoryByID(input.CategoryID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category id")
	}
	if input.Image == nil || input.Image.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product image is required")
	}

	// The upload happens before the transaction; the row only ever carries a
	// reference. A failed upload aborts with no write.
	imageURL, err := s.uploader.Upload(ctx, s.objectName(input.Image.Filename), input.Image.ContentType, input.Image.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: upload product image")
	}

	var created *models.Product
	for attempt := 0; attempt < idAssignRetries; attempt++ {
		txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			maxID, err := txRepo.MaxID(ctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: read max product id")
			}

			product := &models.Product{
				ID:           maxID + 1,
				Title:        strings.TrimSpace(input.Title),
				Price:        input.Price,
				Description:  input.Description,
				CategoryID:   category.ID,
				CategoryName: category.Name,
				ImageURL:     imageURL,
			}
			if err := txRepo.Insert(ctx, product); err != nil {
				return err
			}
			created = product
			return nil
		})
		if txErr == nil {
			return NewProductDTO(created), nil
		}
		if isIDConflict(txErr) {
			continue
		}
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, txErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "db: insert product")
	}

	return nil, pkgerrors.New(pkgerrors.CodeConflict, "product id assignment kept conflicting, try again")
}

func (s *service) objectName(filename string) string {
	name := uuid.NewString()
	if ext := path.Ext(filename); ext != "" {
		name += strings.ToLower(ext)
	}
	if s.objects == "" {
		return name
	}
	return s.objects + "/" + name
}

func isIDConflict(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || pkgerrors.IsUniqueViolation(err)
}
