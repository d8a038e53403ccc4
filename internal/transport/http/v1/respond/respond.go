package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/pricing"
	"github.com/foodcourt/orders/internal/service/services/ordersvc"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, envelope{Success: true, Message: message, Data: data})
}

// List writes a success envelope with an element count.
func List(w http.ResponseWriter, status int, data any, count int) {
	write(w, status, envelope{Success: true, Count: &count, Data: data})
}

// Error maps a service error onto a status code and failure envelope.
// Business-rule faults carry enough detail to identify the offending
// entity; persistence faults surface as a generic server error.
func Error(w http.ResponseWriter, err error) {
	var unavailable *pricing.ItemUnavailableError
	var invalid *order.InvalidTransitionError

	switch {
	case errors.Is(err, pricing.ErrEmptyOrder),
		errors.Is(err, order.ErrCancellationReasonRequired),
		errors.As(err, &unavailable),
		errors.As(err, &invalid):
		fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ordersvc.ErrForbidden):
		fail(w, http.StatusForbidden, "Not authorized for this order")
	case errors.Is(err, order.ErrOrderNotFound):
		fail(w, http.StatusNotFound, "Order not found")
	default:
		slog.Error("Request failed", "error", err)
		fail(w, http.StatusInternalServerError, "Server error")
	}
}

// BadRequest writes a validation failure envelope.
func BadRequest(w http.ResponseWriter, message string) {
	fail(w, http.StatusBadRequest, message)
}

func fail(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Message: message})
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}
