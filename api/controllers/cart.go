package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/api/middleware"
	"github.com/stationeryworks/stationery-backend/api/responses"
	"github.com/stationeryworks/stationery-backend/api/validators"
	"github.com/stationeryworks/stationery-backend/internal/cart"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
)

type cartLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Image       *string         `json:"image,omitempty"`
	UOM         string          `json:"uom"`
	PackSize    int             `json:"pack_size"`
	MinOrderQty int             `json:"min_order_qty"`
	Stock       int             `json:"stock"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type cartViewResponse struct {
	Items       []cartLineResponse `json:"items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	DeliveryFee decimal.Decimal    `json:"delivery_fee"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
}

func newCartViewResponse(view cart.View) cartViewResponse {
	items := make([]cartLineResponse, 0, len(view.Lines))
	for _, line := range view.Lines {
		items = append(items, cartLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Image:       line.Image,
			UOM:         line.UOM,
			PackSize:    line.PackSize,
			MinOrderQty: line.MinOrderQty,
			Stock:       line.Stock,
			Quantity:    line.Quantity,
			Price:       line.Price,
			LineTotal:   line.LineTotal,
		})
	}
	return cartViewResponse{
		Items:       items,
		Subtotal:    view.Subtotal,
		DeliveryFee: view.Delivery,
		GrandTotal:  view.GrandTotal,
	}
}

func requireSessionID(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session not established")
	}
	return sessionID, nil
}

func clientMetaFromRequest(r *http.Request) cart.ClientMeta {
	meta := cart.ClientMeta{}
	if ip := r.RemoteAddr; ip != "" {
		meta.IPAddress = &ip
	}
	if ua := r.UserAgent(); ua != "" {
		meta.UserAgent = &ua
	}
	return meta
}

type cartAddRequest struct {
	ProductID string `json:"product_id" validate:"required,max=20"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CartAdd adds a product to the session cart, or increases its quantity.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddItem(r.Context(), sessionID, payload.ProductID, payload.Quantity, clientMetaFromRequest(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ViewCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartViewResponse(*view))
	}
}

// CartDecrease lowers a line's quantity by one, removing it at zero.
func CartDecrease(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DecreaseItem(r.Context(), sessionID, chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ViewCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartViewResponse(*view))
	}
}

// CartRemove deletes a line from the session cart.
func CartRemove(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveItem(r.Context(), sessionID, chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ViewCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartViewResponse(*view))
	}
}

// CartClear empties the session cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ClearCart(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ViewCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartViewResponse(*view))
	}
}

// CartView returns the priced session cart.
func CartView(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ViewCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartViewResponse(*view))
	}
}
