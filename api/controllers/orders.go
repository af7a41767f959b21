package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kartosvlad459-art/inko-shop-bot/api/middleware"
	"github.com/kartosvlad459-art/inko-shop-bot/api/responses"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/orders"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/types/dto"
)

// AdminOrders lists recent orders for the admin panel.
func AdminOrders(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
				return
			}
			limit = parsed
		}

		recent, err := svc.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]dto.Order, 0, len(recent))
		for _, order := range recent {
			out = append(out, dto.OrderFromModel(order))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminOrder serves one order by its sequential number.
func AdminOrder(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := orderNumber(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto.OrderFromModel(*order))
	}
}

// AdminConfirmOrder confirms the order as the authenticated admin.
func AdminConfirmOrder(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := orderNumber(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims := middleware.AdminClaims(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.Confirm(r.Context(), claims.ChatID, number); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order_number": number, "status": string(enums.OrderStatusConfirmed)})
	}
}

// AdminRejectOrder rejects the order as the authenticated admin.
func AdminRejectOrder(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := orderNumber(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims := middleware.AdminClaims(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.Reject(r.Context(), claims.ChatID, number); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order_number": number, "status": string(enums.OrderStatusRejected)})
	}
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// AdminSetOrderStatus overwrites the delivery status.
func AdminSetOrderStatus(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := orderNumber(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		claims := middleware.AdminClaims(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.SetDeliveryStatus(r.Context(), claims.ChatID, number, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order_number": number, "status": string(status)})
	}
}

func orderNumber(r *http.Request) (int64, error) {
	number, err := strconv.ParseInt(chi.URLParam(r, "orderNumber"), 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid order number")
	}
	return number, nil
}
