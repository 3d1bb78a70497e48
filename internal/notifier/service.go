package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/stationeryworks/stationery-backend/pkg/config"
	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	"github.com/stationeryworks/stationery-backend/pkg/enums"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
	"github.com/stationeryworks/stationery-backend/pkg/mail"
	"github.com/stationeryworks/stationery-backend/pkg/metrics"
	"github.com/stationeryworks/stationery-backend/pkg/outbox"
	"github.com/stationeryworks/stationery-backend/pkg/outbox/payloads"
)

const (
	kindAdmin    = "admin"
	kindCustomer = "customer"
)

// Mailer is the delivery surface the worker depends on.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer adapts pkg/mail to the worker's Mailer surface.
type SMTPMailer struct {
	mailer *mail.Mailer
}

func NewSMTPMailer(mailer *mail.Mailer) *SMTPMailer {
	return &SMTPMailer{mailer: mailer}
}

func (s *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	return s.mailer.Compose(to).Subject(subject).Body(htmlBody).Send(ctx)
}

type outboxRepo interface {
	FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type repository interface {
	FindEnquiry(ctx context.Context, id int64) (*models.Enquiry, error)
	LogEmail(ctx context.Context, log *models.EmailLog) error
}

// Service drains the outbox and delivers enquiry emails.
type Service struct {
	cfg     config.OutboxConfig
	smtpCfg config.SMTPConfig
	repo    repository
	events  outboxRepo
	mailer  Mailer
	metrics *metrics.NotifierMetrics
	logg    *logger.Logger
}

// NewService builds the notification worker.
func NewService(cfg config.OutboxConfig, smtpCfg config.SMTPConfig, repo repository, events outboxRepo, mailer Mailer, m *metrics.NotifierMetrics, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifier repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		cfg:     cfg,
		smtpCfg: smtpCfg,
		repo:    repo,
		events:  events,
		mailer:  mailer,
		metrics: m,
		logg:    logg,
	}, nil
}

// Run polls the outbox until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := s.ProcessBatch(ctx); err != nil {
			s.logg.Error(ctx, "processing outbox batch", err)
		}
	}
}

// ProcessBatch handles one fetch of unpublished events.
func (s *Service) ProcessBatch(ctx context.Context) error {
	events, err := s.events.FetchUnpublished(s.cfg.BatchSize, s.cfg.MaxAttempts)
	if err != nil {
		return fmt.Errorf("fetching outbox events: %w", err)
	}
	for _, event := range events {
		s.processEvent(ctx, event)
	}
	return nil
}

func (s *Service) processEvent(ctx context.Context, event models.OutboxEvent) {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"event_id":   event.ID.String(),
		"event_type": event.EventType,
	})

	if event.EventType != enums.EventEnquirySubmitted {
		// nothing to deliver for this type; retire the row
		if err := s.events.MarkPublished(event.ID); err != nil {
			s.logg.Error(logCtx, "marking event published", err)
		}
		return
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		s.logg.Error(logCtx, "decoding envelope", err)
		s.markFailed(logCtx, event.ID, err)
		return
	}
	var payload payloads.EnquirySubmittedEvent
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.logg.Error(logCtx, "decoding payload", err)
		s.markFailed(logCtx, event.ID, err)
		return
	}

	enquiry, err := s.repo.FindEnquiry(ctx, payload.EnquiryID)
	if err != nil {
		s.logg.Error(logCtx, "loading enquiry", err)
		s.markFailed(logCtx, event.ID, err)
		return
	}

	logCtx = s.logg.WithFields(logCtx, map[string]any{"enquiry_id": enquiry.ID})

	// Delivery failures are logged per recipient and never retried: the
	// enquiry itself already committed, and staff can follow up from the
	// email_logs table.
	sendErr := multierr.Combine(
		s.deliver(logCtx, enquiry, kindAdmin),
		s.deliver(logCtx, enquiry, kindCustomer),
	)
	if sendErr != nil {
		s.logg.Warn(logCtx, "one or more enquiry emails failed")
	}

	if err := s.events.MarkPublished(event.ID); err != nil {
		s.logg.Error(logCtx, "marking event published", err)
	}
}

func (s *Service) deliver(ctx context.Context, enquiry *models.Enquiry, kind string) error {
	var (
		to      string
		subject string
		body    string
		err     error
	)
	switch kind {
	case kindAdmin:
		to = s.smtpCfg.AdminEmail
		subject = fmt.Sprintf("New enquiry #%d from %s", enquiry.ID, enquiry.CustomerName)
		body, err = renderAdminBody(enquiry)
	default:
		to = enquiry.Email
		subject = fmt.Sprintf("Your enquiry #%d has been received", enquiry.ID)
		body, err = renderCustomerBody(enquiry, s.smtpCfg.FromName)
	}
	if err != nil {
		return fmt.Errorf("rendering %s email: %w", kind, err)
	}

	start := time.Now()
	sendErr := s.mailer.Send(ctx, to, subject, body)
	s.metrics.ObserveDuration(kind, time.Since(start))

	logRow := &models.EmailLog{
		EnquiryID:  enquiry.ID,
		EmailTo:    to,
		SentStatus: sendErr == nil,
	}
	if logErr := s.repo.LogEmail(ctx, logRow); logErr != nil {
		s.logg.Error(ctx, "writing email log", logErr)
	}

	if sendErr != nil {
		s.metrics.IncFailed(kind)
		s.logg.Error(ctx, fmt.Sprintf("sending %s email", kind), sendErr)
		return sendErr
	}
	s.metrics.IncSent(kind)
	return nil
}

func (s *Service) markFailed(ctx context.Context, id uuid.UUID, cause error) {
	if err := s.events.MarkFailed(id, cause); err != nil {
		s.logg.Error(ctx, "marking event failed", err)
	}
}
