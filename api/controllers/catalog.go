package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kartosvlad459-art/inko-shop-bot/api/responses"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/catalog"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/pagination"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/types/dto"
)

// CatalogCategories serves the public category feed for the web storefront.
func CatalogCategories(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]dto.Category, 0, len(categories))
		for _, c := range categories {
			out = append(out, dto.CategoryFromModel(c))
		}
		responses.WriteSuccess(w, out)
	}
}

type productPageResponse struct {
	Products   []dto.Product `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// CatalogCategoryProducts serves one cursor page of a category's products,
// newest first.
func CatalogCategoryProducts(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid category id"))
			return
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
				return
			}
			params.Limit = limit
		}

		page, err := svc.ProductsPage(r.Context(), categoryID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := productPageResponse{
			Products:   make([]dto.Product, 0, len(page.Products)),
			NextCursor: page.NextCursor,
		}
		for _, p := range page.Products {
			out.Products = append(out.Products, dto.ProductFromModel(p))
		}
		responses.WriteSuccess(w, out)
	}
}

// CatalogProduct serves one product by id.
func CatalogProduct(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		product, err := svc.Find(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto.ProductFromModel(*product))
	}
}

// CatalogSearch serves title substring search over the catalog.
func CatalogSearch(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]dto.Product, 0, len(products))
		for _, p := range products {
			out = append(out, dto.ProductFromModel(p))
		}
		responses.WriteSuccess(w, out)
	}
}
