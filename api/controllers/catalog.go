package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/api/responses"
	"github.com/stationeryworks/stationery-backend/api/validators"
	"github.com/stationeryworks/stationery-backend/internal/catalog"
	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
)

type categoryResponse struct {
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

type brandResponse struct {
	BrandID     string  `json:"brand_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

type productResponse struct {
	ProductID   string          `json:"product_id"`
	CategoryID  string          `json:"category_id"`
	BrandID     string          `json:"brand_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	SKU         *string         `json:"sku,omitempty"`
	MRP         decimal.Decimal `json:"mrp"`
	Price       decimal.Decimal `json:"price"`
	PackSize    int             `json:"pack_size"`
	UOM         string          `json:"uom"`
	MinOrderQty int             `json:"min_order_qty"`
	Stock       int             `json:"stock"`
	Image       *string         `json:"image,omitempty"`
	HSNCode     *string         `json:"hsn_code,omitempty"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	IsFeatured  bool            `json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
}

func newCategoryResponse(c models.Category) categoryResponse {
	return categoryResponse{
		CategoryID:  c.CategoryID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
	}
}

func newBrandResponse(b models.Brand) brandResponse {
	return brandResponse{
		BrandID:     b.BrandID,
		Name:        b.Name,
		Description: b.Description,
		Image:       b.Image,
	}
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ProductID:   p.ProductID,
		CategoryID:  p.CategoryID,
		BrandID:     p.BrandID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		MRP:         p.MRP,
		Price:       p.Price,
		PackSize:    p.PackSize,
		UOM:         p.UOM,
		MinOrderQty: p.MinOrderQty,
		Stock:       p.Stock,
		Image:       p.Image,
		HSNCode:     p.HSNCode,
		TaxPercent:  p.TaxPercent,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt,
	}
}

func newProductListResponse(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	return out
}

// CategoryList returns all active categories.
func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]categoryResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newCategoryResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

// CategoryProducts lists active products belonging to the category.
func CategoryProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "categoryId")
		rows, err := svc.ListProducts(r.Context(), catalog.ProductFilter{CategoryCode: code})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductListResponse(rows))
	}
}

// BrandList returns all active brands.
func BrandList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]brandResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newBrandResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

// BrandProducts lists active products belonging to the brand.
func BrandProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "brandId")
		rows, err := svc.ListProducts(r.Context(), catalog.ProductFilter{BrandCode: code})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductListResponse(rows))
	}
}

// ProductList lists active products, optionally only featured ones.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ProductFilter{}
		switch strings.ToLower(r.URL.Query().Get("featured")) {
		case "true", "1":
			featured := true
			filter.Featured = &featured
		case "false", "0":
			featured := false
			filter.Featured = &featured
		}
		rows, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductListResponse(rows))
	}
}

// ProductSearch searches active products by name or description.
func ProductSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("q"))
		if term == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}
		rows, err := svc.ListProducts(r.Context(), catalog.ProductFilter{Search: term})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductListResponse(rows))
	}
}

type productFilterRequest struct {
	CategoryIDs []string         `json:"category_ids,omitempty" validate:"omitempty,max=50,dive,max=20"`
	BrandIDs    []string         `json:"brand_ids,omitempty" validate:"omitempty,max=50,dive,max=20"`
	Featured    *bool            `json:"featured,omitempty"`
	MinPrice    *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice    *decimal.Decimal `json:"max_price,omitempty"`
	MinOrderQty *int             `json:"min_order_qty,omitempty" validate:"omitempty,gt=0"`
	Search      string           `json:"search,omitempty" validate:"omitempty,max=200"`
}

// ProductFilter applies a combined filter supplied as a JSON body.
func ProductFilter(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productFilterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.MinPrice != nil && payload.MaxPrice != nil && payload.MaxPrice.LessThan(*payload.MinPrice) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "max_price must not be below min_price"))
			return
		}
		filter := catalog.ProductFilter{
			CategoryCodes: payload.CategoryIDs,
			BrandCodes:    payload.BrandIDs,
			Featured:      payload.Featured,
			MinPrice:      payload.MinPrice,
			MaxPrice:      payload.MaxPrice,
			MinOrderQty:   payload.MinOrderQty,
			Search:        payload.Search,
		}
		rows, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductListResponse(rows))
	}
}

// ProductDetail returns one active product by business code.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "productId")
		row, err := svc.GetProduct(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*row))
	}
}
