package orderitem

import (
	"time"

	"github.com/foodcourt/orders/internal/service/models/currency"
)

// OrderItem represents a single priced line within an order. UnitPriceCents
// is the catalog price snapshotted at order creation and never changes
// afterwards.
type OrderItem struct {
	ID              int64             `json:"id"`
	OrderID         int64             `json:"orderId"`
	FoodItemID      int64             `json:"foodItemId"`
	Quantity        int               `json:"quantity"`
	UnitPriceCents  int64             `json:"unitPriceCents"`
	TotalPriceCents int64             `json:"totalPriceCents"`
	PriceCurrency   currency.Currency `json:"priceCurrency"`
	SpecialRequests string            `json:"specialRequests,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}
