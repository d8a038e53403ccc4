package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/services/ordersvc"
	"github.com/foodcourt/orders/internal/transport/http/middleware/auth"
	"github.com/foodcourt/orders/internal/transport/http/v1/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	UpdateStatus(ctx context.Context, actor ordersvc.Actor, orderID int64, target order.Status, reason string) (order.Order, error)
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// UpdateStatus handles the status transition request.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.BadRequest(w, "Missing user identity")

		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.BadRequest(w, "Invalid order id")

		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Failed to decode request body")
		slog.Error("Error decoding request body for update status", "error", err)

		return
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		respond.BadRequest(w, "Invalid order status")

		return
	}

	updated, err := service.UpdateStatus(r.Context(), actor, id, target, req.Reason)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, "Order status updated to "+target.String(), updated)
}
