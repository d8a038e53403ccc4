package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/foodcourt/orders/internal/dal/postgres"
	"github.com/foodcourt/orders/internal/service/pricing"
	"github.com/jackc/pgx/v5"
)

// PostgresCatalogRepository reads food item price and availability. When it
// runs on the order-creation transaction's connection, the price read and
// the order write see one consistent snapshot.
type PostgresCatalogRepository struct {
	conn postgres.Querier
	sb   sq.StatementBuilderType
}

// NewPostgresCatalogRepository creates a new Postgres catalog repository.
func NewPostgresCatalogRepository(conn postgres.Querier) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// PriceForSale returns the current price in cents for an available item.
// Missing and unavailable items are indistinguishable to the caller, both
// fail the order.
func (r *PostgresCatalogRepository) PriceForSale(ctx context.Context, foodItemID int64) (int64, error) {
	sql, args, err := r.sb.
		Select("price_cents").
		From("food_items").
		Where(sq.Eq{"id": foodItemID, "is_available": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build select query: %w", err)
	}

	var priceCents int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&priceCents); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &pricing.ItemUnavailableError{FoodItemID: foodItemID}
		}

		return 0, fmt.Errorf("failed to query food item price: %w", err)
	}

	return priceCents, nil
}
