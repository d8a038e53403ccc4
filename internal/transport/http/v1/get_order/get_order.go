package getorder

import (
	"context"
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
	GetOrder(ctx context.Context, actor ordersvc.Actor, id int64) (order.Order, error)
}

// GetOrder handles the point read of one order.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
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

	o, err := service.GetOrder(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, "", o)
}
