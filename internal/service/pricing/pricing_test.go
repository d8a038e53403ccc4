package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/foodcourt/orders/internal/service/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLookup struct {
	prices map[int64]int64
	reads  map[int64]int
}

func (m *mapLookup) PriceForSale(_ context.Context, foodItemID int64) (int64, error) {
	if m.reads != nil {
		m.reads[foodItemID]++
	}
	price, ok := m.prices[foodItemID]
	if !ok {
		return 0, &pricing.ItemUnavailableError{FoodItemID: foodItemID}
	}
	return price, nil
}

func TestEngine_Price(t *testing.T) {
	engine := pricing.NewEngine()
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	// Item A 10.00 x2, item B 5.00 x1: total 25.00, tax 2.50,
	// delivery 5.00, final 32.50.
	lookup := &mapLookup{prices: map[int64]int64{1: 1000, 2: 500}}
	lines := []pricing.LineInput{
		{FoodItemID: 1, Quantity: 2},
		{FoodItemID: 2, Quantity: 1, SpecialRequests: "no onions"},
	}

	priced, err := engine.Price(context.Background(), lookup, lines, now)

	require.NoError(t, err)
	assert.Equal(t, int64(2500), priced.TotalCents)
	assert.Equal(t, int64(250), priced.TaxCents)
	assert.Equal(t, int64(500), priced.DeliveryFeeCents)
	assert.Equal(t, int64(3250), priced.FinalCents)
	assert.Equal(t, priced.TotalCents+priced.TaxCents+priced.DeliveryFeeCents, priced.FinalCents)

	require.Len(t, priced.Items, 2)
	assert.Equal(t, int64(1000), priced.Items[0].UnitPriceCents)
	assert.Equal(t, int64(2000), priced.Items[0].TotalPriceCents)
	assert.Equal(t, int64(500), priced.Items[1].UnitPriceCents)
	assert.Equal(t, "no onions", priced.Items[1].SpecialRequests)

	var sum int64
	for _, item := range priced.Items {
		sum += item.TotalPriceCents
	}
	assert.Equal(t, priced.TotalCents, sum)
}

func TestEngine_Price_EmptyOrder(t *testing.T) {
	engine := pricing.NewEngine()

	_, err := engine.Price(context.Background(), &mapLookup{}, nil, time.Now())

	assert.ErrorIs(t, err, pricing.ErrEmptyOrder)
}

func TestEngine_Price_ItemUnavailable(t *testing.T) {
	engine := pricing.NewEngine()
	lookup := &mapLookup{prices: map[int64]int64{1: 1000}}
	lines := []pricing.LineInput{
		{FoodItemID: 1, Quantity: 1},
		{FoodItemID: 42, Quantity: 3},
	}

	_, err := engine.Price(context.Background(), lookup, lines, time.Now())

	var unavailable *pricing.ItemUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, int64(42), unavailable.FoodItemID)
}

func TestEngine_Price_InvalidQuantity(t *testing.T) {
	engine := pricing.NewEngine()
	lookup := &mapLookup{prices: map[int64]int64{1: 1000}}

	_, err := engine.Price(context.Background(), lookup, []pricing.LineInput{
		{FoodItemID: 1, Quantity: 0},
	}, time.Now())

	assert.Error(t, err)
}

func TestEngine_Price_SingleReadPerLine(t *testing.T) {
	engine := pricing.NewEngine()
	lookup := &mapLookup{
		prices: map[int64]int64{1: 1000, 2: 500},
		reads:  map[int64]int{},
	}
	lines := []pricing.LineInput{
		{FoodItemID: 1, Quantity: 2},
		{FoodItemID: 2, Quantity: 1},
	}

	_, err := engine.Price(context.Background(), lookup, lines, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1, lookup.reads[1], "price must be read exactly once per line")
	assert.Equal(t, 1, lookup.reads[2], "price must be read exactly once per line")
}
