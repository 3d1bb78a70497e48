package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
)

// FeeQuoter computes the delivery fee for a cart subtotal.
type FeeQuoter interface {
	Quote(subtotal decimal.Decimal) decimal.Decimal
}

// ClientMeta carries request metadata stored with cart rows.
type ClientMeta struct {
	IPAddress *string
	UserAgent *string
}

// LineView is one priced cart line in a read projection.
type LineView struct {
	ProductID   string
	ProductName string
	Image       *string
	UOM         string
	PackSize    int
	MinOrderQty int
	Stock       int
	Quantity    int
	Price       decimal.Decimal
	LineTotal   decimal.Decimal
}

// View is the priced cart projection returned to the storefront.
type View struct {
	Lines      []LineView
	Subtotal   decimal.Decimal
	Delivery   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Service exposes session cart operations.
type Service interface {
	AddItem(ctx context.Context, sessionID, productCode string, qty int, meta ClientMeta) error
	DecreaseItem(ctx context.Context, sessionID, productCode string) error
	RemoveItem(ctx context.Context, sessionID, productCode string) error
	ClearCart(ctx context.Context, sessionID string) error
	ViewCart(ctx context.Context, sessionID string) (*View, error)
}

type productLoader interface {
	FindProductByCode(ctx context.Context, code string) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productLoader
	fees     FeeQuoter
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, products productLoader, fees FeeQuoter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if fees == nil {
		return nil, fmt.Errorf("fee quoter required")
	}
	return &service{repo: repo, products: products, fees: fees}, nil
}

// AddItem upserts the session/product line, summing quantities.
func (s *service) AddItem(ctx context.Context, sessionID, productCode string, qty int, meta ClientMeta) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session is required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindProductByCode(ctx, productCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	// every add, including increments on an existing line, must meet the
	// product's minimum order quantity
	if qty < product.MinOrderQty {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("minimum order quantity for %s is %d", product.Name, product.MinOrderQty))
	}

	newQty := qty
	existing, err := s.repo.FindItem(ctx, sessionID, productCode)
	switch {
	case err == nil:
		newQty = existing.Quantity + qty
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first add for this product
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	if newQty > product.Stock {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("only %d units of %s available", product.Stock, product.Name))
	}

	row := models.CartItem{
		SessionID: sessionID,
		ProductID: productCode,
		Quantity:  newQty,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if existing != nil {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.Save(ctx, &row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart item")
	}
	return nil
}

// DecreaseItem decrements the line by one, deleting it at zero.
func (s *service) DecreaseItem(ctx context.Context, sessionID, productCode string) error {
	existing, err := s.repo.FindItem(ctx, sessionID, productCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	if existing.Quantity <= 1 {
		if err := s.repo.DeleteItem(ctx, sessionID, productCode); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting cart item")
		}
		return nil
	}
	existing.Quantity--
	if err := s.repo.Save(ctx, existing); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart item")
	}
	return nil
}

// RemoveItem deletes the line. Removing an absent line is a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID, productCode string) error {
	if err := s.repo.DeleteItem(ctx, sessionID, productCode); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting cart item")
	}
	return nil
}

// ClearCart deletes every line for the session. Idempotent.
func (s *service) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteBySession(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}

// ViewCart returns the priced projection using current catalog prices.
func (s *service) ViewCart(ctx context.Context, sessionID string) (*View, error) {
	lines, err := s.repo.ListLines(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	view := &View{
		Lines:    make([]LineView, 0, len(lines)),
		Subtotal: decimal.Zero,
	}
	for _, line := range lines {
		lineTotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Item.Quantity)))
		view.Lines = append(view.Lines, LineView{
			ProductID:   line.Product.ProductID,
			ProductName: line.Product.Name,
			Image:       line.Product.Image,
			UOM:         line.Product.UOM,
			PackSize:    line.Product.PackSize,
			MinOrderQty: line.Product.MinOrderQty,
			Stock:       line.Product.Stock,
			Quantity:    line.Item.Quantity,
			Price:       line.Product.Price,
			LineTotal:   lineTotal,
		})
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}
	view.Delivery = decimal.Zero
	if len(view.Lines) > 0 {
		view.Delivery = s.fees.Quote(view.Subtotal)
	}
	view.GrandTotal = view.Subtotal.Add(view.Delivery)
	return view, nil
}
