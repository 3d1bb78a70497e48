package payloads

import (
	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/pkg/enums"
)

// EnquiryLine is a price snapshot of a single enquiry line item.
type EnquiryLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UOM         string          `json:"uom"`
	PackSize    string          `json:"pack_size"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// EnquirySubmittedEvent signals that a storefront cart was converted to an enquiry.
type EnquirySubmittedEvent struct {
	EnquiryID     int64           `json:"enquiry_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Address       string          `json:"address"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Items         []EnquiryLine   `json:"items"`
}

// EnquiryStatusChangedEvent is emitted on admin status transitions.
type EnquiryStatusChangedEvent struct {
	EnquiryID     int64               `json:"enquiry_id"`
	CustomerEmail string              `json:"customer_email"`
	From          enums.EnquiryStatus `json:"from"`
	To            enums.EnquiryStatus `json:"to"`
}
