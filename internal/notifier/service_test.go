package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/pkg/config"
	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	"github.com/stationeryworks/stationery-backend/pkg/enums"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
	"github.com/stationeryworks/stationery-backend/pkg/outbox"
	"github.com/stationeryworks/stationery-backend/pkg/outbox/payloads"
)

type recordingMailer struct {
	sent []string
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func newNotifierTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:notifier_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Enquiry{},
		&models.EnquiryItem{},
		&models.EmailLog{},
		&models.OutboxEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newNotifierService(t *testing.T, db *gorm.DB, mailer Mailer) *Service {
	t.Helper()
	svc, err := NewService(
		config.OutboxConfig{BatchSize: 10, PollIntervalMS: 50, MaxAttempts: 3},
		config.SMTPConfig{AdminEmail: "owner@example.in", FromName: "Wholesale Stationery"},
		NewRepository(db),
		outbox.NewRepository(db),
		mailer,
		nil,
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedEnquiryWithEvent(t *testing.T, db *gorm.DB) *models.Enquiry {
	t.Helper()
	enquiry := models.Enquiry{
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
		Items: []models.EnquiryItem{{
			ProductID:   "PRD001",
			ProductName: "Classmate Notebook",
			UOM:         "PCS",
			PackSize:    "10 PCS",
			Quantity:    3,
			Price:       decimal.NewFromInt(300),
			TotalPrice:  decimal.NewFromInt(900),
		}},
	}
	if err := db.Create(&enquiry).Error; err != nil {
		t.Fatalf("seed enquiry: %v", err)
	}

	data, err := json.Marshal(payloads.EnquirySubmittedEvent{EnquiryID: enquiry.ID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       data,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventEnquirySubmitted,
		AggregateType: enums.AggregateEnquiry,
		AggregateID:   enquiry.ID,
		Payload:       envelope,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return &enquiry
}

func TestProcessBatchDeliversBothEmails(t *testing.T) {
	t.Parallel()

	db := newNotifierTestDB(t)
	enquiry := seedEnquiryWithEvent(t, db)
	mailer := &recordingMailer{}
	svc := newNotifierService(t, db, mailer)

	if err := svc.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}

	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d (%v)", len(mailer.sent), mailer.sent)
	}
	if mailer.sent[0] != "owner@example.in" || mailer.sent[1] != enquiry.Email {
		t.Fatalf("unexpected recipients: %v", mailer.sent)
	}

	var logs []models.EmailLog
	if err := db.Order("id ASC").Find(&logs).Error; err != nil {
		t.Fatalf("load email logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 email logs, got %d", len(logs))
	}
	for _, row := range logs {
		if !row.SentStatus {
			t.Fatalf("expected sent_status=true, got %+v", row)
		}
	}

	var event models.OutboxEvent
	if err := db.First(&event).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if event.PublishedAt == nil {
		t.Fatal("expected event marked published")
	}
}

func TestProcessBatchLogsFailuresAndStillPublishes(t *testing.T) {
	t.Parallel()

	db := newNotifierTestDB(t)
	seedEnquiryWithEvent(t, db)
	svc := newNotifierService(t, db, &recordingMailer{fail: true})

	if err := svc.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}

	// Send failures never block the enquiry: both attempts are logged with
	// sent_status=false and the event retires anyway.
	var logs []models.EmailLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("load email logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 email logs, got %d", len(logs))
	}
	for _, row := range logs {
		if row.SentStatus {
			t.Fatalf("expected sent_status=false, got %+v", row)
		}
	}

	var event models.OutboxEvent
	if err := db.First(&event).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if event.PublishedAt == nil {
		t.Fatal("expected event marked published despite send failures")
	}
}

func TestProcessBatchSkipsForeignEventTypes(t *testing.T) {
	t.Parallel()

	db := newNotifierTestDB(t)
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventEnquiryStatusChanged,
		AggregateType: enums.AggregateEnquiry,
		AggregateID:   1,
		Payload:       json.RawMessage(`{}`),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	mailer := &recordingMailer{}
	svc := newNotifierService(t, db, mailer)

	if err := svc.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no sends, got %v", mailer.sent)
	}

	var updated models.OutboxEvent
	if err := db.First(&updated).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if updated.PublishedAt == nil {
		t.Fatal("expected foreign event retired")
	}
}

func TestProcessBatchMarksMissingEnquiryFailed(t *testing.T) {
	t.Parallel()

	db := newNotifierTestDB(t)
	data, _ := json.Marshal(payloads.EnquirySubmittedEvent{EnquiryID: 4040})
	envelope, _ := json.Marshal(outbox.PayloadEnvelope{Version: 1, EventID: uuid.NewString(), OccurredAt: time.Now(), Data: data})
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventEnquirySubmitted,
		AggregateType: enums.AggregateEnquiry,
		AggregateID:   4040,
		Payload:       envelope,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	svc := newNotifierService(t, db, &recordingMailer{})

	if err := svc.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}

	var updated models.OutboxEvent
	if err := db.First(&updated).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if updated.PublishedAt != nil {
		t.Fatal("expected event left unpublished")
	}
	if updated.AttemptCount != 1 || updated.LastError == nil {
		t.Fatalf("expected failure recorded, got %+v", updated)
	}
}

func TestFetchUnpublishedHonorsMaxAttempts(t *testing.T) {
	t.Parallel()

	db := newNotifierTestDB(t)
	repo := outbox.NewRepository(db)
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventEnquirySubmitted,
		AggregateType: enums.AggregateEnquiry,
		AggregateID:   1,
		Payload:       json.RawMessage(`{}`),
		AttemptCount:  3,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	rows, err := repo.FetchUnpublished(10, 3)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected exhausted event excluded, got %d rows", len(rows))
	}
}
