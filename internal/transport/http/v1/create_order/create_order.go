package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/pricing"
	"github.com/foodcourt/orders/internal/service/services/ordersvc"
	"github.com/foodcourt/orders/internal/transport/http/middleware/auth"
	"github.com/foodcourt/orders/internal/transport/http/v1/respond"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, actor ordersvc.Actor, input ordersvc.CreateOrderInput) (order.Order, error)
}

type lineRequest struct {
	FoodItemID      int64  `json:"foodItemId"`
	Quantity        int    `json:"quantity"`
	SpecialRequests string `json:"specialRequests"`
}

type createOrderRequest struct {
	Items               []lineRequest `json:"items"`
	AddressID           int64         `json:"addressId"`
	SpecialInstructions string        `json:"specialInstructions"`
}

// CreateOrder handles the order creation request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.BadRequest(w, "Missing user identity")

		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Failed to decode request body")
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if len(req.Items) == 0 {
		respond.BadRequest(w, "Please provide order items")

		return
	}

	lines := make([]pricing.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = pricing.LineInput{
			FoodItemID:      item.FoodItemID,
			Quantity:        item.Quantity,
			SpecialRequests: item.SpecialRequests,
		}
	}

	created, err := service.CreateOrder(r.Context(), actor, ordersvc.CreateOrderInput{
		Lines:               lines,
		AddressID:           req.AddressID,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, "Order created successfully", created)
}
