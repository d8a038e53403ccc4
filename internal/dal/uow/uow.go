package uow

import (
	"context"

	"github.com/foodcourt/orders/internal/dal/interfaces/icatalogrepo"
	"github.com/foodcourt/orders/internal/dal/interfaces/iorderitemrepo"
	"github.com/foodcourt/orders/internal/dal/interfaces/iorderrepo"
	"github.com/foodcourt/orders/internal/dal/interfaces/ioutboxrepo"
	"github.com/foodcourt/orders/internal/dal/postgres"
	catalogrepo "github.com/foodcourt/orders/internal/dal/repositories/catalog/postgres"
	orderrepo "github.com/foodcourt/orders/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/foodcourt/orders/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/foodcourt/orders/internal/dal/repositories/outbox/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// unitOfWork binds the repositories to one connection. After Begin they all
// run on the same transaction, so the catalog read, the order and item
// inserts and the outbox insert commit or roll back as one unit.
type unitOfWork struct {
	pool          *pgxpool.Pool
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	catalogRepo   icatalogrepo.ICatalogRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work over the shared pool. Until Begin is
// called the repositories run in auto-commit mode, which is enough for
// reads.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:          client.Pool(),
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
		catalogRepo:   catalogrepo.NewPostgresCatalogRepository(client.Pool()),
		outboxRepo:    outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) CatalogRepository() icatalogrepo.ICatalogRepository {
	return u.catalogRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.catalogRepo = catalogrepo.NewPostgresCatalogRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

// Rollback is a no-op after a successful Commit, so it is safe to defer.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
