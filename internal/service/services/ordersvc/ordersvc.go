package ordersvc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodcourt/orders/internal/dal/interfaces/icatalogrepo"
	"github.com/foodcourt/orders/internal/dal/interfaces/iorderitemrepo"
	"github.com/foodcourt/orders/internal/dal/interfaces/iorderrepo"
	"github.com/foodcourt/orders/internal/dal/interfaces/ioutboxrepo"
	"github.com/foodcourt/orders/internal/dal/postgres"
	"github.com/foodcourt/orders/internal/dal/uow"
	"github.com/foodcourt/orders/internal/service/models/currency"
	"github.com/foodcourt/orders/internal/service/models/event"
	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/models/orderitem"
	"github.com/foodcourt/orders/internal/service/models/outbox"
	"github.com/foodcourt/orders/internal/service/pricing"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// ErrForbidden is returned when the acting user may not touch the order.
var ErrForbidden = errors.New("not authorized for this order")

// Actor identifies the requesting user. Authentication itself happens
// upstream; the transport layer extracts the verified identity.
type Actor struct {
	UserID int64
	Admin  bool
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	CatalogRepository() icatalogrepo.ICatalogRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// notifier pushes a status notice to currently connected subscribers.
// Delivery is fire-and-forget; failures never affect the request.
type notifier interface {
	NotifyStatus(orderID int64, status order.Status, ts time.Time)
}

// CreateOrderInput is the validated input for order creation.
type CreateOrderInput struct {
	Lines               []pricing.LineInput
	AddressID           int64
	SpecialInstructions string
}

// OrderService orchestrates the order lifecycle: transactional creation,
// state transitions and event emission.
type OrderService struct {
	pgClient   *postgres.Client
	pricer     *pricing.Engine
	rules      order.Rules
	notifier   notifier
	txTimeout  time.Duration
	maxRetries int
	uowFactory func() unitOfWork
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		rules:      order.DefaultRules(),
		txTimeout:  10 * time.Second,
		maxRetries: 5,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.pricer == nil {
		s.pricer = pricing.NewEngine()
	}

	if s.uowFactory == nil {
		if s.pgClient == nil {
			panic("ordersvc: postgres client is required")
		}
		s.uowFactory = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithRules sets the status transition policy.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRules(rules order.Rules) option {
	return func(s *OrderService) {
		s.rules = rules
	}
}

// WithNotifier sets the real-time notifier.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithNotifier(n notifier) option {
	return func(s *OrderService) {
		s.notifier = n
	}
}

// WithTxTimeout bounds every creation and status-update transaction.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTxTimeout(d time.Duration) option {
	return func(s *OrderService) {
		s.txTimeout = d
	}
}

// WithUnitOfWorkFactory overrides the unit-of-work constructor, used by
// tests to substitute in-memory repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// TxTimeoutFromConfig reads the transaction timeout from configuration.
func TxTimeoutFromConfig() time.Duration {
	seconds := viper.GetInt("orders.tx_timeout_seconds")
	if seconds == 0 {
		seconds = 10
	}

	return time.Duration(seconds) * time.Second
}

// RulesFromConfig builds the transition policy from configuration.
func RulesFromConfig() order.Rules {
	rules := order.DefaultRules()
	if viper.IsSet("orders.allow_cancel_out_for_delivery") {
		rules.CancelFromOutForDelivery = viper.GetBool("orders.allow_cancel_out_for_delivery")
	}

	return rules
}

// CreateOrder prices the requested lines against the catalog and persists
// the order, its items and the creation event in one transaction. Unit
// prices are read once inside that transaction and reused as the persisted
// snapshot.
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, input CreateOrderInput) (order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	now := time.Now().UTC()

	work := s.uowFactory()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(context.WithoutCancel(ctx)) }()

	priced, err := s.pricer.Price(ctx, work.CatalogRepository(), input.Lines, now)
	if err != nil {
		return order.Order{}, err
	}

	o := order.Order{
		OrderNumber:         newOrderNumber(now),
		UserID:              actor.UserID,
		AddressID:           input.AddressID,
		TotalCents:          priced.TotalCents,
		TaxCents:            priced.TaxCents,
		DeliveryFeeCents:    priced.DeliveryFeeCents,
		FinalCents:          priced.FinalCents,
		Currency:            currency.CurrencyUSD,
		Status:              order.StatusPending,
		SpecialInstructions: input.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	o, err = work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	items := priced.Items
	for i := range items {
		items[i].OrderID = o.ID
	}

	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, err
	}
	o.OrderItems = items

	topic, payload := event.ForCreation(o, now)
	if err := s.enqueueEvent(ctx, work.OutboxRepository(), topic, payload, now); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notify(o, now)

	return o, nil
}

// GetOrder retrieves one order with its items. Only the owner or an admin
// may read it.
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, id int64) (order.Order, error) {
	work := s.uowFactory()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	if !actor.Admin && o.UserID != actor.UserID {
		return order.Order{}, ErrForbidden
	}

	items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: []int64{o.ID},
	})
	if err != nil {
		return order.Order{}, err
	}
	if items == nil {
		items = []orderitem.OrderItem{}
	}
	o.OrderItems = items

	return o, nil
}

// ListOrders retrieves orders with their items. Non-admin actors only ever
// see their own orders, regardless of the requested filter.
func (s *OrderService) ListOrders(ctx context.Context, actor Actor, filter order.QueryOrdersModel) ([]order.Order, error) {
	if !actor.Admin {
		filter.UserIds = []int64{actor.UserID}
	}

	work := s.uowFactory()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemFilter := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemFilter.OrderIds = append(itemFilter.OrderIds, o.ID)
	}

	items, err := work.OrderItemRepository().Query(ctx, itemFilter)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// UpdateStatus transitions an order to the target status. The current row
// is locked and re-validated inside the same transaction as the write, so
// two concurrent transitions from the same state cannot both succeed.
// Admin-only, except cancellation which the owner may also request.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, orderID int64, target order.Status, reason string) (order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	work := s.uowFactory()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(context.WithoutCancel(ctx)) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}

	if !actor.Admin {
		if target != order.StatusCancelled || o.UserID != actor.UserID {
			return order.Order{}, ErrForbidden
		}
	}

	now := time.Now().UTC()

	if err := s.rules.ApplyTransition(&o, target, reason, now); err != nil {
		return order.Order{}, err
	}

	o, err = work.OrderRepository().UpdateStatus(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	if topic, payload, ok := event.ForTransition(o, now); ok {
		if err := s.enqueueEvent(ctx, work.OutboxRepository(), topic, payload, now); err != nil {
			return order.Order{}, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notify(o, now)

	return o, nil
}

// CancelOrder is the cancellation sub-operation of UpdateStatus.
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, orderID int64, reason string) (order.Order, error) {
	return s.UpdateStatus(ctx, actor, orderID, order.StatusCancelled, reason)
}

// enqueueEvent persists the lifecycle event on the caller's transaction so
// it commits atomically with the order write. The outbox worker delivers it
// to the broker afterwards.
func (s *OrderService) enqueueEvent(ctx context.Context, repo ioutboxrepo.IOutboxRepository, topic string, payload event.Payload, now time.Time) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return repo.Insert(ctx, outbox.Message{
		Topic:       topic,
		MessageKey:  payload.Key(),
		Payload:     body,
		ContentType: "application/json",
		MaxRetries:  s.maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}

func (s *OrderService) notify(o order.Order, now time.Time) {
	if s.notifier == nil {
		return
	}

	s.notifier.NotifyStatus(o.ID, o.Status, now)
}

// newOrderNumber generates a human-readable order number. The random
// suffix keeps concurrently created orders collision-free; the database
// unique constraint backs that up.
func newOrderNumber(now time.Time) string {
	u := uuid.New()

	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(u[:6])))
}
