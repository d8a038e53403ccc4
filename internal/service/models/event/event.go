package event

import (
	"strconv"
	"time"

	"github.com/foodcourt/orders/internal/service/models/order"
)

// Kind identifies the lifecycle transition an event describes.
type Kind string

const (
	KindCreated        Kind = "CREATED"
	KindConfirmed      Kind = "CONFIRMED"
	KindPreparing      Kind = "PREPARING"
	KindOutForDelivery Kind = "OUT_FOR_DELIVERY"
	KindDelivered      Kind = "DELIVERED"
	KindCancelled      Kind = "CANCELLED"
)

// One broker topic per event kind. Keys are order ids, so ordering is
// guaranteed per order only where the broker preserves per-key ordering.
const (
	TopicOrderCreated        = "order.created"
	TopicOrderConfirmed      = "order.confirmed"
	TopicOrderPreparing      = "order.preparing"
	TopicOrderOutForDelivery = "order.out_for_delivery"
	TopicOrderDelivered      = "order.delivered"
	TopicOrderCancelled      = "order.cancelled"
)

var statusTopics = map[order.Status]string{
	order.StatusConfirmed:      TopicOrderConfirmed,
	order.StatusPreparing:      TopicOrderPreparing,
	order.StatusOutForDelivery: TopicOrderOutForDelivery,
	order.StatusDelivered:      TopicOrderDelivered,
	order.StatusCancelled:      TopicOrderCancelled,
}

var statusKinds = map[order.Status]Kind{
	order.StatusConfirmed:      KindConfirmed,
	order.StatusPreparing:      KindPreparing,
	order.StatusOutForDelivery: KindOutForDelivery,
	order.StatusDelivered:      KindDelivered,
	order.StatusCancelled:      KindCancelled,
}

// AllTopics lists every lifecycle topic, used to declare broker queues at
// startup.
func AllTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderConfirmed,
		TopicOrderPreparing,
		TopicOrderOutForDelivery,
		TopicOrderDelivered,
		TopicOrderCancelled,
	}
}

// Payload is the immutable fact published for every order transition.
type Payload struct {
	Event       Kind         `json:"event"`
	OrderID     int64        `json:"orderId"`
	OrderNumber string       `json:"orderNumber"`
	UserID      int64        `json:"userId"`
	AmountCents int64        `json:"amountCents"`
	Status      order.Status `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Key is the broker partition key for the payload's order.
func (p Payload) Key() string {
	return strconv.FormatInt(p.OrderID, 10)
}

// ForCreation builds the order.created event for a freshly committed order.
func ForCreation(o order.Order, now time.Time) (string, Payload) {
	return TopicOrderCreated, Payload{
		Event:       KindCreated,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		AmountCents: o.FinalCents,
		Status:      o.Status,
		Timestamp:   now,
	}
}

// ForTransition builds the event matching the order's new status.
func ForTransition(o order.Order, now time.Time) (string, Payload, bool) {
	topic, ok := statusTopics[o.Status]
	if !ok {
		return "", Payload{}, false
	}

	return topic, Payload{
		Event:       statusKinds[o.Status],
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		AmountCents: o.FinalCents,
		Status:      o.Status,
		Timestamp:   now,
	}, true
}
