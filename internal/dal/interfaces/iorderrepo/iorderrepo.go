package iorderrepo

import (
	"context"

	"github.com/foodcourt/orders/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, id int64) (order.Order, error)
	// GetByIDForUpdate locks the order row for the rest of the
	// transaction so concurrent status updates serialize.
	GetByIDForUpdate(ctx context.Context, id int64) (order.Order, error)
	UpdateStatus(ctx context.Context, o order.Order) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
