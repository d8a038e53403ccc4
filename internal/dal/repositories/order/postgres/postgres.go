package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/foodcourt/orders/internal/dal/postgres"
	"github.com/foodcourt/orders/internal/service/models/currency"
	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id                  int64              `db:"id"`
	OrderNumber         string             `db:"order_number"`
	UserId              int64              `db:"user_id"`
	AddressId           int64              `db:"address_id"`
	TotalCents          int64              `db:"total_cents"`
	TaxCents            int64              `db:"tax_cents"`
	DeliveryFeeCents    int64              `db:"delivery_fee_cents"`
	FinalCents          int64              `db:"final_cents"`
	Currency            string             `db:"currency"`
	Status              string             `db:"status"`
	SpecialInstructions pgtype.Text        `db:"special_instructions"`
	CancellationReason  pgtype.Text        `db:"cancellation_reason"`
	CreatedAt           pgtype.Timestamptz `db:"created_at"`
	UpdatedAt           pgtype.Timestamptz `db:"updated_at"`
	DeliveredAt         pgtype.Timestamptz `db:"delivered_at"`
	CancelledAt         pgtype.Timestamptz `db:"cancelled_at"`
}

var orderColumns = []string{
	"id",
	"order_number",
	"user_id",
	"address_id",
	"total_cents",
	"tax_cents",
	"delivery_fee_cents",
	"final_cents",
	"currency",
	"status",
	"special_instructions",
	"cancellation_reason",
	"created_at",
	"updated_at",
	"delivered_at",
	"cancelled_at",
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.Currency)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	model := &order.Order{
		ID:               o.Id,
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserId,
		AddressID:        o.AddressId,
		TotalCents:       o.TotalCents,
		TaxCents:         o.TaxCents,
		DeliveryFeeCents: o.DeliveryFeeCents,
		FinalCents:       o.FinalCents,
		Currency:         cur,
		Status:           status,
		CreatedAt:        o.CreatedAt.Time,
		UpdatedAt:        o.UpdatedAt.Time,
		OrderItems:       []orderitem.OrderItem{}, // Will be populated separately
	}

	if o.SpecialInstructions.Valid {
		model.SpecialInstructions = o.SpecialInstructions.String
	}
	if o.CancellationReason.Valid {
		model.CancellationReason = o.CancellationReason.String
	}
	if o.DeliveredAt.Valid {
		deliveredAt := o.DeliveredAt.Time
		model.DeliveredAt = &deliveredAt
	}
	if o.CancelledAt.Valid {
		cancelledAt := o.CancelledAt.Time
		model.CancelledAt = &cancelledAt
	}

	return model, nil
}

func (o *OrderDal) scanFrom(row pgx.Row) error {
	return row.Scan(
		&o.Id,
		&o.OrderNumber,
		&o.UserId,
		&o.AddressId,
		&o.TotalCents,
		&o.TaxCents,
		&o.DeliveryFeeCents,
		&o.FinalCents,
		&o.Currency,
		&o.Status,
		&o.SpecialInstructions,
		&o.CancellationReason,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.DeliveredAt,
		&o.CancelledAt,
	)
}

func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.Querier
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts a single order and returns it with the generated id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns(
			"order_number",
			"user_id",
			"address_id",
			"total_cents",
			"tax_cents",
			"delivery_fee_cents",
			"final_cents",
			"currency",
			"status",
			"special_instructions",
			"created_at",
			"updated_at",
		).
		Values(
			o.OrderNumber,
			o.UserID,
			o.AddressID,
			o.TotalCents,
			o.TaxCents,
			o.DeliveryFeeCents,
			o.FinalCents,
			o.Currency.String(),
			o.Status.String(),
			nullText(o.SpecialInstructions),
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING " + joinColumns(orderColumns)).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal OrderDal
	if err := dal.scanFrom(r.conn.QueryRow(ctx, sql, args...)); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	model.OrderItems = append(model.OrderItems, o.OrderItems...)

	return *model, nil
}

// GetByID retrieves a single order by id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (order.Order, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves a single order by id with a row-level lock,
// so the caller's transaction serializes against concurrent updates.
func (r *PostgresOrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (order.Order, error) {
	return r.getByID(ctx, id, true)
}

func (r *PostgresOrderRepository) getByID(ctx context.Context, id int64, forUpdate bool) (order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id})

	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	if err := dal.scanFrom(r.conn.QueryRow(ctx, sql, args...)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrOrderNotFound
		}

		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return *model, nil
}

// UpdateStatus writes the order's status and the fields derived from it.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, o order.Order) (order.Order, error) {
	sql, args, err := r.sb.
		Update("orders").
		Set("status", o.Status.String()).
		Set("cancellation_reason", nullText(o.CancellationReason)).
		Set("updated_at", o.UpdatedAt).
		Set("delivered_at", nullTime(o.DeliveredAt)).
		Set("cancelled_at", nullTime(o.CancelledAt)).
		Where(sq.Eq{"id": o.ID}).
		Suffix("RETURNING " + joinColumns(orderColumns)).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build update query: %w", err)
	}

	var dal OrderDal
	if err := dal.scanFrom(r.conn.QueryRow(ctx, sql, args...)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrOrderNotFound
		}

		return order.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	model.OrderItems = append(model.OrderItems, o.OrderItems...)

	return *model, nil
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.UserIds) > 0 {
		query = query.Where(sq.Eq{"user_id": filter.UserIds})
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
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		if err := dal.scanFrom(rows); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
