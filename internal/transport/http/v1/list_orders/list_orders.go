package listorders

import (
	"context"
	"net/http"
	"strconv"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/services/ordersvc"
	"github.com/foodcourt/orders/internal/transport/http/middleware/auth"
	"github.com/foodcourt/orders/internal/transport/http/v1/respond"
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, actor ordersvc.Actor, filter order.QueryOrdersModel) ([]order.Order, error)
}

// ListOrders handles the order listing request. Non-admin callers are
// scoped to their own orders by the service regardless of the filter.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.BadRequest(w, "Missing user identity")

		return
	}

	query := r.URL.Query()
	filter := order.QueryOrdersModel{}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	orders, err := service.ListOrders(r.Context(), actor, filter)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.List(w, http.StatusOK, orders, len(orders))
}
