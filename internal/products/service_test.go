package product

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/hyunwoo-dev/storefront-backend/pkg/config"
	"github.com/hyunwoo-dev/storefront-backend/pkg/db"
	"github.com/hyunwoo-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
	"github.com/hyunwoo-dev/storefront-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  price NUMERIC NOT NULL,
  description TEXT,
  category_id TEXT NOT NULL,
  category_name TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(products).Error)
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, id int64, title string, categoryID string, price int64) {
	t.Helper()
	name := categoryID
	if c, ok := CategoryByID(categoryID); ok {
		name = c.Name
	}
	row := &models.Product{
		ID:           id,
		Title:        title,
		Price:        decimal.NewFromInt(price),
		CategoryID:   categoryID,
		CategoryName: name,
	}
	require.NoError(t, conn.Create(row).Error)
}

type stubUploader struct {
	mu      sync.Mutex
	calls   int
	lastKey string
	fail    bool
}

func (s *stubUploader) Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastKey = objectName
	if s.fail {
		return "", fmt.Errorf("bucket unavailable")
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return "https://storage.googleapis.com/bucket/" + objectName, nil
}

func newCatalogService(t *testing.T, conn *gorm.DB, uploader *stubUploader) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		db.NewFromConn(conn),
		uploader,
		config.CatalogConfig{DefaultPageSize: 20, MaxPageSize: 100},
		"products",
	)
	require.NoError(t, err)
	return svc
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestFetchProductsWorkedExample(t *testing.T) {
	conn := setupCatalogTestDB(t)
	seedProduct(t, conn, 5, "Keyboard", "2", 2000)
	seedProduct(t, conn, 3, "Monitor", "2", 6000)
	seedProduct(t, conn, 1, "Shirt", "1", 1500)

	svc := newCatalogService(t, conn, &stubUploader{})

	page, err := svc.FetchProducts(context.Background(), Filter{
		CategoryID: "2",
		MinPrice:   decimalPtr(1000),
		MaxPrice:   decimalPtr(5000),
	}, pagination.Params{Page: 1, PageSize: 2})
	require.NoError(t, err)

	require.Len(t, page.Products, 1)
	require.Equal(t, "5", page.Products[0].ID)
	require.Equal(t, 1, page.TotalCount)
	require.False(t, page.HasNextPage)
	require.Equal(t, 1, page.CurrentPage)
}

func TestFetchProductsCategoryFilter(t *testing.T) {
	conn := setupCatalogTestDB(t)
	seedProduct(t, conn, 1, "Shirt", "1", 100)
	seedProduct(t, conn, 2, "Keyboard", "2", 200)
	seedProduct(t, conn, 3, "Jeans", "1", 300)

	svc := newCatalogService(t, conn, &stubUploader{})

	page, err := svc.FetchProducts(context.Background(), Filter{CategoryID: "1"}, pagination.Params{})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
	for _, p := range page.Products {
		require.Equal(t, "1", p.CategoryID)
	}

	all, err := svc.FetchProducts(context.Background(), Filter{CategoryID: AllCategoriesID}, pagination.Params{})
	require.NoError(t, err)
	require.Equal(t, 3, all.TotalCount)
}

func TestFetchProductsTitleSubstring(t *testing.T) {
	conn := setupCatalogTestDB(t)
	seedProduct(t, conn, 1, "Wireless Keyboard", "2", 100)
	seedProduct(t, conn, 2, "Wired Mouse", "2", 100)
	seedProduct(t, conn, 3, "Webcam", "2", 100)

	svc := newCatalogService(t, conn, &stubUploader{})

	// The leading-character range admits all three W titles; the substring
	// pass keeps only true matches, case-insensitively.
	page, err := svc.FetchProducts(context.Background(), Filter{Title: "WIRE"}, pagination.Params{})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
	for _, p := range page.Products {
		require.Contains(t, strings.ToLower(p.Title), "wire")
	}
}

func TestFetchProductsOrderedByIDDesc(t *testing.T) {
	conn := setupCatalogTestDB(t)
	seedProduct(t, conn, 1, "A", "1", 100)
	seedProduct(t, conn, 2, "B", "1", 100)
	seedProduct(t, conn, 3, "C", "1", 100)

	svc := newCatalogService(t, conn, &stubUploader{})

	page, err := svc.FetchProducts(context.Background(), Filter{}, pagination.Params{})
	require.NoError(t, err)
	require.Equal(t, []string{"3", "2", "1"}, []string{page.Products[0].ID, page.Products[1].ID, page.Products[2].ID})
}

func TestFetchProductsPaginationWindow(t *testing.T) {
	conn := setupCatalogTestDB(t)
	for i := int64(1); i <= 5; i++ {
		seedProduct(t, conn, i, fmt.Sprintf("Item %d", i), "1", 100*i)
	}

	svc := newCatalogService(t, conn, &stubUploader{})

	page1, err := svc.FetchProducts(context.Background(), Filter{}, pagination.Params{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, 5, page1.TotalCount)
	require.Len(t, page1.Products, 2)
	require.True(t, page1.HasNextPage)

	page3, err := svc.FetchProducts(context.Background(), Filter{}, pagination.Params{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, 5, page3.TotalCount)
	require.Len(t, page3.Products, 1)
	require.False(t, page3.HasNextPage)

	past, err := svc.FetchProducts(context.Background(), Filter{}, pagination.Params{Page: 9, PageSize: 2})
	require.NoError(t, err)
	require.Empty(t, past.Products)
	require.Equal(t, 5, past.TotalCount)
}

func TestFetchProductsPriceBounds(t *testing.T) {
	conn := setupCatalogTestDB(t)
	seedProduct(t, conn, 1, "Cheap", "1", 500)
	seedProduct(t, conn, 2, "Mid", "1", 1500)
	seedProduct(t, conn, 3, "Expensive", "1", 9000)

	svc := newCatalogService(t, conn, &stubUploader{})

	page, err := svc.FetchProducts(context.Background(), Filter{
		MinPrice: decimalPtr(1000),
		MaxPrice: decimalPtr(5000),
	}, pagination.Params{})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, "Mid", page.Products[0].Title)

	_, err = svc.FetchProducts(context.Background(), Filter{
		MinPrice: decimalPtr(5000),
		MaxPrice: decimalPtr(1000),
	}, pagination.Params{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAddProductAssignsSequentialIDs(t *testing.T) {
	conn := setupCatalogTestDB(t)
	uploader := &stubUploader{}
	svc := newCatalogService(t, conn, uploader)

	first, err := svc.AddProduct(context.Background(), AddProductInput{
		Title:      "First",
		Price:      decimal.NewFromInt(1000),
		CategoryID: "2",
		Image:      &ImageUpload{Filename: "first.png", ContentType: "image/png", Body: bytes.NewReader([]byte("img"))},
	})
	require.NoError(t, err)
	require.Equal(t, "1", first.ID)
	require.Equal(t, "Electronics", first.CategoryName)
	require.True(t, strings.HasPrefix(uploader.lastKey, "products/"))
	require.True(t, strings.HasSuffix(uploader.lastKey, ".png"))
	require.Contains(t, first.ImageURL, uploader.lastKey)

	second, err := svc.AddProduct(context.Background(), AddProductInput{
		Title:      "Second",
		Price:      decimal.NewFromInt(2000),
		CategoryID: "2",
		Image:      &ImageUpload{Filename: "second.png", ContentType: "image/png", Body: bytes.NewReader([]byte("img"))},
	})
	require.NoError(t, err)
	require.Equal(t, "2", second.ID)
}

func TestAddProductConcurrentIDsDistinct(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogService(t, conn, &stubUploader{})

	const workers = 4
	ids := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			dto, err := svc.AddProduct(context.Background(), AddProductInput{
				Title:      fmt.Sprintf("Racer %d", n),
				Price:      decimal.NewFromInt(100),
				CategoryID: "1",
				Image:      &ImageUpload{Filename: "r.png", ContentType: "image/png", Body: bytes.NewReader([]byte("img"))},
			})
			if err != nil {
				t.Errorf("add product: %v", err)
				return
			}
			ids <- dto.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate product id %s", id)
		}
		seen[id] = true
	}
	require.Len(t, seen, workers)
}

func TestAddProductValidation(t *testing.T) {
	conn := setupCatalogTestDB(t)
	uploader := &stubUploader{}
	svc := newCatalogService(t, conn, uploader)

	cases := []struct {
		name  string
		input AddProductInput
	}{
		{"missing title", AddProductInput{Price: decimal.NewFromInt(1), CategoryID: "1", Image: &ImageUpload{Body: bytes.NewReader(nil)}}},
		{"negative price", AddProductInput{Title: "X", Price: decimal.NewFromInt(-1), CategoryID: "1", Image: &ImageUpload{Body: bytes.NewReader(nil)}}},
		{"unknown category", AddProductInput{Title: "X", Price: decimal.NewFromInt(1), CategoryID: "99", Image: &ImageUpload{Body: bytes.NewReader(nil)}}},
		{"missing image", AddProductInput{Title: "X", Price: decimal.NewFromInt(1), CategoryID: "1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddProduct(context.Background(), tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}

	require.Zero(t, uploader.calls, "validation failures must not reach storage")
}

func TestAddProductUploadFailureWritesNothing(t *testing.T) {
	conn := setupCatalogTestDB(t)
	uploader := &stubUploader{fail: true}
	svc := newCatalogService(t, conn, uploader)

	_, err := svc.AddProduct(context.Background(), AddProductInput{
		Title:      "Doomed",
		Price:      decimal.NewFromInt(100),
		CategoryID: "1",
		Image:      &ImageUpload{Filename: "d.png", ContentType: "image/png", Body: bytes.NewReader([]byte("img"))},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}
