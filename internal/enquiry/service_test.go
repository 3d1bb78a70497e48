package enquiry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/internal/cart"
	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	"github.com/stationeryworks/stationery-backend/pkg/enums"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
	"github.com/stationeryworks/stationery-backend/pkg/outbox"
	"github.com/stationeryworks/stationery-backend/pkg/outbox/payloads"
	"github.com/stationeryworks/stationery-backend/pkg/pagination"
)

type gormTx struct{ db *gorm.DB }

func (g gormTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func newEnquiryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:enquiry_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.CartItem{},
		&models.Enquiry{},
		&models.EnquiryItem{},
		&models.EmailLog{},
		&models.OutboxEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newSubmitService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(db),
		cart.NewRepository(db),
		gormTx{db: db},
		outbox.NewService(outbox.NewRepository(db), nil),
		NewPricing(testCheckoutConfig()),
		nil,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, code string, price int64, stock int) {
	t.Helper()
	row := models.Product{
		ProductID:   code,
		CategoryID:  "CAT001",
		BrandID:     "BRD001",
		Name:        "Product " + code,
		MRP:         decimal.NewFromInt(price + 10),
		Price:       decimal.NewFromInt(price),
		PackSize:    10,
		UOM:         "PCS",
		MinOrderQty: 1,
		Stock:       stock,
		IsActive:    true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed product %s: %v", code, err)
	}
}

func seedCartLine(t *testing.T, db *gorm.DB, session, code string, qty int) {
	t.Helper()
	if err := db.Create(&models.CartItem{SessionID: session, ProductID: code, Quantity: qty}).Error; err != nil {
		t.Fatalf("seed cart line: %v", err)
	}
}

func submitInput(session string) SubmitInput {
	return SubmitInput{
		SessionID:    session,
		CustomerName: "Asha Traders",
		Email:        "asha@example.in",
		Phone:        "9876543210",
		Address:      "14 Market Road, Pune",
	}
}

func TestSubmitCreatesEnquiryAtomically(t *testing.T) {
	t.Parallel()

	db := newEnquiryTestDB(t)
	seedCatalogProduct(t, db, "PRD001", 300, 50)
	seedCatalogProduct(t, db, "PRD002", 200, 50)
	session := uuid.NewString()
	seedCartLine(t, db, session, "PRD001", 3) // 900
	seedCartLine(t, db, session, "PRD002", 2) // 400
	svc := newSubmitService(t, db)

	result, err := svc.Submit(context.Background(), submitInput(session))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Subtotal.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("expected subtotal 1300, got %s", result.Subtotal)
	}
	// 1300 falls in the reduced fee band.
	if !result.Delivery.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected delivery 30, got %s", result.Delivery)
	}
	if !result.GrandTotal.Equal(decimal.NewFromInt(1330)) {
		t.Fatalf("expected grand total 1330, got %s", result.GrandTotal)
	}

	var enquiry models.Enquiry
	if err := db.Preload("Items").First(&enquiry, result.EnquiryID).Error; err != nil {
		t.Fatalf("load enquiry: %v", err)
	}
	if enquiry.Status != enums.EnquiryStatusNew {
		t.Fatalf("expected status NEW, got %s", enquiry.Status)
	}
	if len(enquiry.Items) != 2 {
		t.Fatalf("expected 2 item snapshots, got %d", len(enquiry.Items))
	}
	for _, item := range enquiry.Items {
		if item.ProductName == "" || item.PackSize == "" {
			t.Fatalf("expected populated snapshot, got %+v", item)
		}
	}

	// Stock decremented.
	var product models.Product
	if err := db.First(&product, "product_id = ?", "PRD001").Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Stock != 47 {
		t.Fatalf("expected stock 47, got %d", product.Stock)
	}

	// Cart cleared.
	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("session_id = ?", session).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("expected cart cleared, got %d rows", cartCount)
	}

	// Outbox event queued with the enquiry payload.
	var events []models.OutboxEvent
	if err := db.Find(&events).Error; err != nil {
		t.Fatalf("load outbox: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(events))
	}
	if events[0].EventType != enums.EventEnquirySubmitted {
		t.Fatalf("unexpected event type %s", events[0].EventType)
	}
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(events[0].Payload, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var payload payloads.EnquirySubmittedEvent
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.EnquiryID != result.EnquiryID || len(payload.Items) != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	t.Parallel()

	db := newEnquiryTestDB(t)
	svc := newSubmitService(t, db)

	_, err := svc.Submit(context.Background(), submitInput(uuid.NewString()))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestSubmitBelowMinimumOrder(t *testing.T) {
	t.Parallel()

	db := newEnquiryTestDB(t)
	seedCatalogProduct(t, db, "PRD001", 100, 50)
	session := uuid.NewString()
	seedCartLine(t, db, session, "PRD001", 5) // 500 + 60 fee
	svc := newSubmitService(t, db)

	_, err := svc.Submit(context.Background(), submitInput(session))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeBelowMinimumOrder {
		t.Fatalf("expected below minimum error, got %v", err)
	}

	// Nothing persisted.
	var count int64
	if err := db.Model(&models.Enquiry{}).Count(&count).Error; err != nil {
		t.Fatalf("count enquiries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no enquiry rows, got %d", count)
	}
}

func TestSubmitInsufficientStockRollsBack(t *testing.T) {
	t.Parallel()

	db := newEnquiryTestDB(t)
	seedCatalogProduct(t, db, "PRD001", 700, 50)
	seedCatalogProduct(t, db, "PRD002", 500, 1)
	session := uuid.NewString()
	seedCartLine(t, db, session, "PRD001", 2) // decrements fine
	seedCartLine(t, db, session, "PRD002", 3) // exceeds stock
	svc := newSubmitService(t, db)

	_, err := svc.Submit(context.Background(), submitInput(session))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	// The first decrement must have been rolled back with the rest.
	var product models.Product
	if err := db.First(&product, "product_id = ?", "PRD001").Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Stock != 50 {
		t.Fatalf("expected stock restored to 50, got %d", product.Stock)
	}

	// Cart survives a failed submission.
	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("session_id = ?", session).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart: %v", err)
	}
	if cartCount != 2 {
		t.Fatalf("expected cart intact, got %d rows", cartCount)
	}

	var eventCount int64
	if err := db.Model(&models.OutboxEvent{}).Count(&eventCount).Error; err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if eventCount != 0 {
		t.Fatalf("expected no outbox rows, got %d", eventCount)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	t.Parallel()

	db := newEnquiryTestDB(t)
	svc := newSubmitService(t, db)
	ctx := context.Background()

	row := models.Enquiry{
		CustomerName: "Asha Traders",
		Email:        "asha@example.in",
		Phone:        "9876543210",
		Address:      "14 Market Road, Pune",
		SessionID:    uuid.NewString(),
		Status:       enums.EnquiryStatusNew,
		Subtotal:     decimal.NewFromInt(1300),
		Delivery:     decimal.NewFromInt(30),
		GrandTotal:   decimal.NewFromInt(1330),
		IsActive:     true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed enquiry: %v", err)
	}

	notes := "spoke on phone"
	updated, err := svc.UpdateStatus(ctx, row.ID, enums.EnquiryStatusContacted, &notes)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != enums.EnquiryStatusContacted {
		t.Fatalf("expected CONTACTED, got %s", updated.Status)
	}
	if updated.AdminNotes == nil || *updated.AdminNotes != notes {
		t.Fatalf("expected admin notes persisted, got %v", updated.AdminNotes)
	}

	// CLOSED is terminal.
	if _, err := svc.UpdateStatus(ctx, row.ID, enums.EnquiryStatusClosed, nil); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err = svc.UpdateStatus(ctx, row.ID, enums.EnquiryStatusContacted, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	_, err = svc.UpdateStatus(ctx, row.ID, enums.EnquiryStatus("SHIPPED"), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	_, err = svc.UpdateStatus(ctx, 99999, enums.EnquiryStatusContacted, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPagesNewestFirst(t *testing.T) {
	t.Parallel()

	db := newEnquiryTestDB(t)
	svc := newSubmitService(t, db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		row := models.Enquiry{
			CustomerName: "Customer",
			Email:        "c@example.in",
			Phone:        "9876543210",
			Address:      "Pune",
			SessionID:    uuid.NewString(),
			Status:       enums.EnquiryStatusNew,
			Subtotal:     decimal.NewFromInt(1300),
			Delivery:     decimal.NewFromInt(30),
			GrandTotal:   decimal.NewFromInt(1330),
			IsActive:     true,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed enquiry %d: %v", i, err)
		}
	}

	rows, err := svc.List(ctx, ListFilter{}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Limit+1 buffer row signals the next page.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (2 + buffer), got %d", len(rows))
	}
	if rows[0].ID < rows[1].ID {
		t.Fatalf("expected newest first, got %d before %d", rows[0].ID, rows[1].ID)
	}

	status := enums.EnquiryStatusClosed
	filtered, err := svc.List(ctx, ListFilter{Status: &status}, pagination.Params{})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered) != 0 {
		t.Fatalf("expected no CLOSED enquiries, got %d", len(filtered))
	}
}
