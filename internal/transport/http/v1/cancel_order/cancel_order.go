package cancelorder

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
	CancelOrder(ctx context.Context, actor ordersvc.Actor, orderID int64, reason string) (order.Order, error)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles the cancellation request. The owning user may cancel
// their own order; admins may cancel any.
func CancelOrder(w http.ResponseWriter, r *http.Request, service service) {
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

	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Failed to decode request body")
		slog.Error("Error decoding request body for cancel order", "error", err)

		return
	}

	cancelled, err := service.CancelOrder(r.Context(), actor, id, req.Reason)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, "Order cancelled successfully", cancelled)
}
