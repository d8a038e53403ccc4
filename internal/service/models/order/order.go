package order

import (
	"errors"
	"time"

	"github.com/foodcourt/orders/internal/service/models/currency"
	"github.com/foodcourt/orders/internal/service/models/orderitem"
)

var ErrOrderNotFound = errors.New("order not found")

// Order represents one placed purchase together with its line items.
// FinalCents is always TotalCents + TaxCents + DeliveryFeeCents.
type Order struct {
	ID                  int64                 `json:"id"`
	OrderNumber         string                `json:"orderNumber"`
	UserID              int64                 `json:"userId"`
	AddressID           int64                 `json:"addressId"`
	TotalCents          int64                 `json:"totalCents"`
	TaxCents            int64                 `json:"taxCents"`
	DeliveryFeeCents    int64                 `json:"deliveryFeeCents"`
	FinalCents          int64                 `json:"finalCents"`
	Currency            currency.Currency     `json:"currency"`
	Status              Status                `json:"status"`
	SpecialInstructions string                `json:"specialInstructions,omitempty"`
	CancellationReason  string                `json:"cancellationReason,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
	DeliveredAt         *time.Time            `json:"deliveredAt,omitempty"`
	CancelledAt         *time.Time            `json:"cancelledAt,omitempty"`
	OrderItems          []orderitem.OrderItem `json:"orderItems"`
}
