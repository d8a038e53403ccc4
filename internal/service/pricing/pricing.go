package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodcourt/orders/internal/service/models/currency"
	"github.com/foodcourt/orders/internal/service/models/orderitem"
	"github.com/spf13/viper"
)

// ErrEmptyOrder is returned when an order is priced with no lines.
var ErrEmptyOrder = errors.New("order must contain at least one item")

// ItemUnavailableError is returned when a referenced food item is not
// currently purchasable.
type ItemUnavailableError struct {
	FoodItemID int64
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("food item %d not available", e.FoodItemID)
}

// PriceLookup resolves the current sale price of a food item in cents.
// Implementations return *ItemUnavailableError for items that are missing
// or flagged unavailable.
type PriceLookup interface {
	PriceForSale(ctx context.Context, foodItemID int64) (int64, error)
}

// LineInput is one requested (food item, quantity) pairing.
type LineInput struct {
	FoodItemID      int64
	Quantity        int
	SpecialRequests string
}

// PricedOrder holds the result of pricing a list of lines. Item unit prices
// are the snapshots to persist; totals are derived from the same reads.
type PricedOrder struct {
	Items            []orderitem.OrderItem
	TotalCents       int64
	TaxCents         int64
	DeliveryFeeCents int64
	FinalCents       int64
}

// Engine computes order totals. Tax and delivery fee are fixed by
// configuration.
type Engine struct {
	taxRatePercent   int64
	deliveryFeeCents int64
}

// NewEngine creates a pricing engine from configuration.
func NewEngine() *Engine {
	taxRatePercent := viper.GetInt64("pricing.tax_rate_percent")
	if taxRatePercent == 0 {
		taxRatePercent = 10
	}

	deliveryFeeCents := viper.GetInt64("pricing.delivery_fee_cents")
	if deliveryFeeCents == 0 {
		deliveryFeeCents = 500
	}

	return &Engine{
		taxRatePercent:   taxRatePercent,
		deliveryFeeCents: deliveryFeeCents,
	}
}

// Price resolves each line's unit price exactly once and builds the order
// lines and totals from those single reads, so the persisted snapshot can
// never diverge from the validated price.
func (e *Engine) Price(ctx context.Context, lookup PriceLookup, lines []LineInput, now time.Time) (*PricedOrder, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]orderitem.OrderItem, 0, len(lines))
	var totalCents int64

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("food item %d: quantity must be at least 1", line.FoodItemID)
		}

		unitPrice, err := lookup.PriceForSale(ctx, line.FoodItemID)
		if err != nil {
			return nil, err
		}

		linePrice := unitPrice * int64(line.Quantity)
		totalCents += linePrice

		items = append(items, orderitem.OrderItem{
			FoodItemID:      line.FoodItemID,
			Quantity:        line.Quantity,
			UnitPriceCents:  unitPrice,
			TotalPriceCents: linePrice,
			PriceCurrency:   currency.CurrencyUSD,
			SpecialRequests: line.SpecialRequests,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	taxCents := totalCents * e.taxRatePercent / 100

	return &PricedOrder{
		Items:            items,
		TotalCents:       totalCents,
		TaxCents:         taxCents,
		DeliveryFeeCents: e.deliveryFeeCents,
		FinalCents:       totalCents + taxCents + e.deliveryFeeCents,
	}, nil
}
