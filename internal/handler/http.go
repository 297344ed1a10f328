package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ivakhin/orderstore/internal/entities"
	"github.com/ivakhin/orderstore/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderUID string) (entities.Order, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderStore
}

func NewHTTPHandler(logger *slog.Logger, svc OrderStore) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Post("/order", h.CreateOrder)
	r.Get("/order/{order_uid}", h.GetOrderByID)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var order Order
	if err := utils.DecodeBody(r, &order); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(order); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	created, err := h.svc.CreateOrder(ctx, OrderJSONToEntity(order))

	if errors.Is(err, entities.ErrOrderExists) {
		utils.WriteError(w, "order already exists", http.StatusConflict)
		return
	}

	if errors.Is(err, entities.ErrInvalidOrder) {
		utils.WriteError(w, "invalid order", http.StatusBadRequest)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create order",
			slog.Any("error", err), slog.String("order_uid", order.OrderUID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(created), http.StatusCreated)
}

func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderUID := chi.URLParam(r, "order_uid")

	if err := h.validate.Var(orderUID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.GetOrderByID(ctx, orderUID)

	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order",
			slog.Any("error", err), slog.String("order_uid", orderUID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}
