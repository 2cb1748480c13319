package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bistro/internal/model"
	"bistro/internal/service"
)

type orderItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	Table string             `json:"table"`
	Items []orderItemRequest `json:"items"`
}

func (r createOrderRequest) validate() error {
	if strings.TrimSpace(r.Table) == "" {
		return errors.New("table is required")
	}
	for _, item := range r.Items {
		if item.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
	}
	return nil
}

// CreateOrderHandler accepts a new order and returns it with its
// store-assigned id and timestamp. An order with no items is accepted.
func CreateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if err := req.validate(); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		items := make([]model.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, model.OrderItem{Name: item.Name, Quantity: item.Quantity})
		}

		order, err := orderSvc.Create(r.Context(), req.Table, items)
		if err != nil {
			slog.Error("order create failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(order); err != nil {
			slog.Error("encode order failed", "error", err)
		}
	}
}

// ListOrdersHandler returns all orders, newest first. The same listing backs
// polling dashboards and the websocket initial snapshot.
func ListOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := orderSvc.List(r.Context())
		if err != nil {
			slog.Error("order list failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(orders); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
