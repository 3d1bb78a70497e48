package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/api/responses"
	"github.com/stationeryworks/stationery-backend/api/validators"
	"github.com/stationeryworks/stationery-backend/internal/enquiry"
	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	"github.com/stationeryworks/stationery-backend/pkg/enums"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
	"github.com/stationeryworks/stationery-backend/pkg/pagination"
)

type enquiryItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UOM         string          `json:"uom"`
	PackSize    string          `json:"pack_size"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type enquiryResponse struct {
	ID           int64                 `json:"id"`
	CustomerName string                `json:"customer_name"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone"`
	Address      string                `json:"address"`
	Status       enums.EnquiryStatus   `json:"status"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	DeliveryFee  decimal.Decimal       `json:"delivery_fee"`
	GrandTotal   decimal.Decimal       `json:"grand_total"`
	AdminNotes   *string               `json:"admin_notes,omitempty"`
	Items        []enquiryItemResponse `json:"items"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type emailLogResponse struct {
	ID         int64     `json:"id"`
	EmailTo    string    `json:"email_to"`
	SentStatus bool      `json:"sent_status"`
	CreatedAt  time.Time `json:"created_at"`
}

type enquiryDetailResponse struct {
	enquiryResponse
	EmailLogs []emailLogResponse `json:"email_logs"`
}

type enquiryListResponse struct {
	Enquiries  []enquiryResponse `json:"enquiries"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}

func newEnquiryResponse(e models.Enquiry) enquiryResponse {
	items := make([]enquiryItemResponse, 0, len(e.Items))
	for _, item := range e.Items {
		items = append(items, enquiryItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UOM:         item.UOM,
			PackSize:    item.PackSize,
			Quantity:    item.Quantity,
			Price:       item.Price,
			TotalPrice:  item.TotalPrice,
		})
	}
	return enquiryResponse{
		ID:           e.ID,
		CustomerName: e.CustomerName,
		Email:        e.Email,
		Phone:        e.Phone,
		Address:      e.Address,
		Status:       e.Status,
		Subtotal:     e.Subtotal,
		DeliveryFee:  e.Delivery,
		GrandTotal:   e.GrandTotal,
		AdminNotes:   e.AdminNotes,
		Items:        items,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func enquiryIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "enquiryId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid enquiry id")
	}
	return id, nil
}

// AdminEnquiryList pages through enquiries newest first, optionally
// filtered by status.
func AdminEnquiryList(svc enquiry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := enquiry.ListFilter{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.EnquiryStatus(strings.ToUpper(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown enquiry status"))
				return
			}
			filter.Status = &status
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
				return
			}
			params.Limit = limit
		}

		rows, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit := pagination.NormalizeLimit(params.Limit)
		var nextCursor *string
		if len(rows) > limit {
			rows = rows[:limit]
			last := rows[len(rows)-1]
			cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			nextCursor = &cursor
		}

		out := make([]enquiryResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newEnquiryResponse(row))
		}
		responses.WriteSuccess(w, enquiryListResponse{Enquiries: out, NextCursor: nextCursor})
	}
}

// AdminEnquiryDetail returns one enquiry with its items and email log.
func AdminEnquiryDetail(svc enquiry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := enquiryIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, logs, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail := enquiryDetailResponse{
			enquiryResponse: newEnquiryResponse(*row),
			EmailLogs:       make([]emailLogResponse, 0, len(logs)),
		}
		for _, log := range logs {
			detail.EmailLogs = append(detail.EmailLogs, emailLogResponse{
				ID:         log.ID,
				EmailTo:    log.EmailTo,
				SentStatus: log.SentStatus,
				CreatedAt:  log.CreatedAt,
			})
		}
		responses.WriteSuccess(w, detail)
	}
}

type enquiryStatusRequest struct {
	Status     string  `json:"status" validate:"required,max=30"`
	AdminNotes *string `json:"admin_notes,omitempty" validate:"omitempty,max=2000"`
}

// AdminEnquiryStatus moves an enquiry through the fulfillment workflow.
func AdminEnquiryStatus(svc enquiry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := enquiryIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload enquiryStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := enums.EnquiryStatus(strings.ToUpper(strings.TrimSpace(payload.Status)))
		updated, err := svc.UpdateStatus(r.Context(), id, status, payload.AdminNotes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newEnquiryResponse(*updated))
	}
}

type dashboardResponse struct {
	Products   int64            `json:"products"`
	Categories int64            `json:"categories"`
	Brands     int64            `json:"brands"`
	Enquiries  int64            `json:"enquiries"`
	ByStatus   map[string]int64 `json:"enquiries_by_status"`
}

// AdminDashboard returns row counts for the admin landing page.
func AdminDashboard(svc enquiry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		byStatus := make(map[string]int64, len(counts.ByStatus))
		for status, n := range counts.ByStatus {
			byStatus[status.String()] = n
		}
		responses.WriteSuccess(w, dashboardResponse{
			Products:   counts.Products,
			Categories: counts.Categories,
			Brands:     counts.Brands,
			Enquiries:  counts.Enquiries,
			ByStatus:   byStatus,
		})
	}
}
