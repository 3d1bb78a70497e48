package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/api/responses"
	"github.com/stationeryworks/stationery-backend/api/validators"
	"github.com/stationeryworks/stationery-backend/internal/enquiry"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
)

type enquiryCreateRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=150"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone" validate:"required,min=7,max=20"`
	Address      string `json:"address" validate:"required,max=1000"`
}

type enquiryCreateResponse struct {
	EnquiryID   int64           `json:"enquiry_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// EnquiryCreate converts the session cart into a submitted enquiry.
func EnquiryCreate(svc enquiry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload enquiryCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		meta := clientMetaFromRequest(r)
		result, err := svc.Submit(r.Context(), enquiry.SubmitInput{
			SessionID:    sessionID,
			CustomerName: payload.CustomerName,
			Email:        payload.Email,
			Phone:        payload.Phone,
			Address:      payload.Address,
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, enquiryCreateResponse{
			EnquiryID:   result.EnquiryID,
			Subtotal:    result.Subtotal,
			DeliveryFee: result.Delivery,
			GrandTotal:  result.GrandTotal,
		})
	}
}
