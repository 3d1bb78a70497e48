package enquiry

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/internal/cart"
	dbpkg "github.com/stationeryworks/stationery-backend/pkg/db"
	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	"github.com/stationeryworks/stationery-backend/pkg/enums"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
	"github.com/stationeryworks/stationery-backend/pkg/outbox"
	"github.com/stationeryworks/stationery-backend/pkg/outbox/payloads"
	"github.com/stationeryworks/stationery-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// SubmitInput carries the validated contact fields for checkout.
type SubmitInput struct {
	SessionID    string
	CustomerName string
	Email        string
	Phone        string
	Address      string
	IPAddress    *string
	UserAgent    *string
}

// SubmitResult reports what the enquiry was priced at.
type SubmitResult struct {
	EnquiryID  int64
	Subtotal   decimal.Decimal
	Delivery   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Service exposes checkout and admin enquiry operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Enquiry, error)
	Get(ctx context.Context, id int64) (*models.Enquiry, []models.EmailLog, error)
	UpdateStatus(ctx context.Context, id int64, status enums.EnquiryStatus, adminNotes *string) (*models.Enquiry, error)
	Dashboard(ctx context.Context) (*DashboardCounts, error)
}

type service struct {
	repo     *Repository
	cartRepo *cart.Repository
	tx       txRunner
	events   eventEmitter
	pricing  *Pricing
	logg     *logger.Logger
}

// NewService builds an enquiry service backed by the provided stack.
func NewService(repo *Repository, cartRepo *cart.Repository, tx txRunner, events eventEmitter, pricing *Pricing, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("enquiry repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("pricing required")
	}
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		tx:       tx,
		events:   events,
		pricing:  pricing,
		logg:     logg,
	}, nil
}

// Submit converts the session's cart into an enquiry. The whole flow runs in
// one transaction: pricing from current catalog rows, guarded stock
// decrements, item snapshots, cart deletion and the outbox event either all
// land or none do.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if input.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session is required")
	}

	var result *SubmitResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lines, err := s.cartRepo.WithTx(tx).ListLines(ctx, input.SessionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		subtotal := decimal.Zero
		items := make([]models.EnquiryItem, 0, len(lines))
		for _, line := range lines {
			lineTotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Item.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, models.EnquiryItem{
				ProductID:   line.Product.ProductID,
				ProductName: line.Product.Name,
				UOM:         line.Product.UOM,
				PackSize:    fmt.Sprintf("%d %s", line.Product.PackSize, line.Product.UOM),
				Quantity:    line.Item.Quantity,
				Price:       line.Product.Price,
				TotalPrice:  lineTotal,
			})
		}
		delivery := s.pricing.Quote(subtotal)
		grandTotal := subtotal.Add(delivery)
		if !s.pricing.MeetsMinimum(grandTotal) {
			return pkgerrors.New(pkgerrors.CodeBelowMinimumOrder,
				fmt.Sprintf("minimum order total is %s", s.pricing.MinimumOrderTotal().StringFixed(2)))
		}

		repo := s.repo.WithTx(tx)
		for _, line := range lines {
			ok, err := repo.DecrementStock(ctx, line.Product.ProductID, line.Item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserving stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s", line.Product.Name))
			}
		}

		enquiry := &models.Enquiry{
			CustomerName: input.CustomerName,
			Email:        input.Email,
			Phone:        input.Phone,
			Address:      input.Address,
			SessionID:    input.SessionID,
			Status:       enums.EnquiryStatusNew,
			Subtotal:     subtotal,
			Delivery:     delivery,
			GrandTotal:   grandTotal,
			IPAddress:    input.IPAddress,
			UserAgent:    input.UserAgent,
			IsActive:     true,
			Items:        items,
		}
		if err := repo.Create(ctx, enquiry); err != nil {
			if dbpkg.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "enquiry already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating enquiry")
		}

		if err := s.cartRepo.WithTx(tx).DeleteBySession(ctx, input.SessionID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}

		eventItems := make([]payloads.EnquiryLine, 0, len(enquiry.Items))
		for _, item := range enquiry.Items {
			eventItems = append(eventItems, payloads.EnquiryLine{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				UOM:         item.UOM,
				PackSize:    item.PackSize,
				Quantity:    item.Quantity,
				Price:       item.Price,
				TotalPrice:  item.TotalPrice,
			})
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventEnquirySubmitted,
			AggregateType: enums.AggregateEnquiry,
			AggregateID:   enquiry.ID,
			Version:       1,
			Data: payloads.EnquirySubmittedEvent{
				EnquiryID:     enquiry.ID,
				CustomerName:  enquiry.CustomerName,
				CustomerEmail: enquiry.Email,
				CustomerPhone: enquiry.Phone,
				Address:       enquiry.Address,
				Subtotal:      enquiry.Subtotal,
				DeliveryFee:   enquiry.Delivery,
				GrandTotal:    enquiry.GrandTotal,
				Items:         eventItems,
			},
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing notification")
		}

		result = &SubmitResult{
			EnquiryID:  enquiry.ID,
			Subtotal:   subtotal,
			Delivery:   delivery,
			GrandTotal: grandTotal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"enquiry_id":  result.EnquiryID,
			"grand_total": result.GrandTotal.StringFixed(2),
		})
		s.logg.Info(logCtx, "enquiry submitted")
	}
	return result, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Enquiry, error) {
	rows, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing enquiries")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Enquiry, []models.EmailLog, error) {
	enquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading enquiry")
	}
	logs, err := s.repo.ListEmailLogs(ctx, id)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading email logs")
	}
	return enquiry, logs, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status enums.EnquiryStatus, adminNotes *string) (*models.Enquiry, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown enquiry status")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading enquiry")
	}
	if !existing.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move enquiry from %s to %s", existing.Status, status))
	}
	if err := s.repo.UpdateStatus(ctx, id, status, adminNotes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating enquiry status")
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading enquiry")
	}
	return updated, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	counts, err := s.repo.CountDashboard(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting dashboard")
	}
	return counts, nil
}
