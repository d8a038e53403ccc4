package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/foodcourt/orders/internal/dal/postgres"
	"github.com/foodcourt/orders/internal/service/models/currency"
	"github.com/foodcourt/orders/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderItemDal represents the order item data access layer model.
type OrderItemDal struct {
	Id              int64       `db:"id"`
	OrderId         int64       `db:"order_id"`
	FoodItemId      int64       `db:"food_item_id"`
	Quantity        int         `db:"quantity"`
	UnitPriceCents  int64       `db:"unit_price_cents"`
	TotalPriceCents int64       `db:"total_price_cents"`
	PriceCurrency   string      `db:"price_currency"`
	SpecialRequests pgtype.Text `db:"special_requests"`
}

// ToModel converts OrderItemDal to the service layer OrderItem model.
func (oi *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	cur, err := currency.ParseCurrency(oi.PriceCurrency)
	if err != nil {
		return nil, err
	}

	model := &orderitem.OrderItem{
		ID:              oi.Id,
		OrderID:         oi.OrderId,
		FoodItemID:      oi.FoodItemId,
		Quantity:        oi.Quantity,
		UnitPriceCents:  oi.UnitPriceCents,
		TotalPriceCents: oi.TotalPriceCents,
		PriceCurrency:   cur,
	}

	if oi.SpecialRequests.Valid {
		model.SpecialRequests = oi.SpecialRequests.String
	}

	return model, nil
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.Querier
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.Querier) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts the order items of one order and returns them with ids.
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	orderItems []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(orderItems) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query := r.sb.
		Insert("order_items").
		Columns(
			"order_id",
			"food_item_id",
			"quantity",
			"unit_price_cents",
			"total_price_cents",
			"price_currency",
			"special_requests",
			"created_at",
			"updated_at",
		)

	for _, oi := range orderItems {
		var requests pgtype.Text
		if oi.SpecialRequests != "" {
			requests = pgtype.Text{String: oi.SpecialRequests, Valid: true}
		}

		query = query.Values(
			oi.OrderID,
			oi.FoodItemID,
			oi.Quantity,
			oi.UnitPriceCents,
			oi.TotalPriceCents,
			oi.PriceCurrency.String(),
			requests,
			oi.CreatedAt,
			oi.UpdatedAt,
		)
	}

	sql, args, err := query.
		Suffix("RETURNING id, order_id, food_item_id, quantity, unit_price_cents, total_price_cents, price_currency, special_requests").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	result := make([]orderitem.OrderItem, 0, len(orderItems))
	i := 0
	for rows.Next() {
		var dal OrderItemDal

		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.FoodItemId,
			&dal.Quantity,
			&dal.UnitPriceCents,
			&dal.TotalPriceCents,
			&dal.PriceCurrency,
			&dal.SpecialRequests,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}

		if i < len(orderItems) {
			model.CreatedAt = orderItems[i].CreatedAt
			model.UpdatedAt = orderItems[i].UpdatedAt
		}
		i++

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves order items based on filter criteria.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	query := r.sb.
		Select(
			"id",
			"order_id",
			"food_item_id",
			"quantity",
			"unit_price_cents",
			"total_price_cents",
			"price_currency",
			"special_requests",
		).
		From("order_items").
		OrderBy("id ASC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.OrderIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal

		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.FoodItemId,
			&dal.Quantity,
			&dal.UnitPriceCents,
			&dal.TotalPriceCents,
			&dal.PriceCurrency,
			&dal.SpecialRequests,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
