package icatalogrepo

import (
	"context"
)

// ICatalogRepository reads current price and availability for food items.
// The order core never mutates the catalog.
type ICatalogRepository interface {
	// PriceForSale returns the current price in cents for an item that
	// is available for sale, or *pricing.ItemUnavailableError otherwise.
	PriceForSale(ctx context.Context, foodItemID int64) (int64, error)
}
