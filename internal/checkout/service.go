package checkout

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/hyunwoo-dev/storefront-backend/internal/cart"
	"github.com/hyunwoo-dev/storefront-backend/pkg/db"
	"github.com/hyunwoo-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// phonePattern accepts digits-with-hyphens numbers like 010-1234-5678.
var phonePattern = regexp.MustCompile(`^\d{2,3}-\d{3,4}-\d{4}$`)

var validPaymentMethods = map[string]struct{}{
	"card":             {},
	"bank_transfer":    {},
	"mobile":           {},
	"cash_on_delivery": {},
}

type cartReader interface {
	Init(ctx context.Context, userID string) (*cart.CartDTO, error)
}

// Service turns the current cart into a persisted order.
type Service interface {
	MakePurchase(ctx context.Context, userID uuid.UUID, input PurchaseInput) (*OrderDTO, error)
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
}

// PurchaseInput is the validated shipping and payment payload.
type PurchaseInput struct {
	ReceiverName    string
	ShippingAddress string
	Phone           string
	Requests        *string
	PaymentMethod   string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	carts    cartReader
}

// NewService builds the checkout service.
func NewService(repo *Repository, dbClient *db.Client, carts cartReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		carts:    carts,
	}, nil
}

// MakePurchase validates the payload, snapshots the cart into an order row
// plus line items inside one transaction, and returns the created order. The
// caller clears the cart after a successful return.
func (s *service) MakePurchase(ctx context.Context, userID uuid.UUID, input PurchaseInput) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := validatePurchaseInput(input); err != nil {
		return nil, err
	}

	snapshot, err := s.carts.Init(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := buildOrder(userID, input, snapshot)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).InsertOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return NewOrderDTO(order), nil
}

// ListPurchases returns the user's order history, newest first.
func (s *service) ListPurchases(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *NewOrderDTO(&orders[i]))
	}
	return dtos, nil
}

// validatePurchaseInput checks every field and reports all failures at once.
func validatePurchaseInput(input PurchaseInput) error {
	var errs error
	if strings.TrimSpace(input.ReceiverName) == "" {
		errs = multierr.Append(errs, fmt.Errorf("receiver name is required"))
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		errs = multierr.Append(errs, fmt.Errorf("shipping address is required"))
	}
	if !phonePattern.MatchString(strings.TrimSpace(input.Phone)) {
		errs = multierr.Append(errs, fmt.Errorf("phone must match digits-with-hyphens format"))
	}
	if _, ok := validPaymentMethods[input.PaymentMethod]; !ok {
		errs = multierr.Append(errs, fmt.Errorf("unsupported payment method %q", input.PaymentMethod))
	}

	if errs == nil {
		return nil
	}

	details := make([]string, 0, len(multierr.Errors(errs)))
	for _, e := range multierr.Errors(errs) {
		details = append(details, e.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase payload").WithDetails(details)
}

func buildOrder(userID uuid.UUID, input PurchaseInput, snapshot *cart.CartDTO) *models.Order {
	orderID := uuid.New()

	items := make([]models.OrderLineItem, 0, len(snapshot.Items))
	totalCount := 0
	totalPrice := decimal.Zero
	for _, line := range snapshot.Items {
		items = append(items, models.OrderLineItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Count:     line.Count,
		})
		totalCount += line.Count
		totalPrice = totalPrice.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Count))))
	}

	return &models.Order{
		ID:              orderID,
		UserID:          userID,
		ReceiverName:    strings.TrimSpace(input.ReceiverName),
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		Phone:           strings.TrimSpace(input.Phone),
		Requests:        input.Requests,
		PaymentMethod:   input.PaymentMethod,
		TotalCount:      totalCount,
		TotalPrice:      totalPrice,
		Items:           items,
	}
}
