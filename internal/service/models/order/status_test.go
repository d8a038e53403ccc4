package order_test

import (
	"testing"
	"time"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	rules := order.DefaultRules()

	allStatuses := []order.Status{
		order.StatusPending,
		order.StatusConfirmed,
		order.StatusPreparing,
		order.StatusOutForDelivery,
		order.StatusDelivered,
		order.StatusCancelled,
	}

	allowed := map[order.Status]map[order.Status]bool{
		order.StatusPending:        {order.StatusConfirmed: true, order.StatusCancelled: true},
		order.StatusConfirmed:      {order.StatusPreparing: true, order.StatusCancelled: true},
		order.StatusPreparing:      {order.StatusOutForDelivery: true, order.StatusCancelled: true},
		order.StatusOutForDelivery: {order.StatusDelivered: true, order.StatusCancelled: true},
		order.StatusDelivered:      {},
		order.StatusCancelled:      {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := rules.ValidateTransition(from, to)
			if allowed[from][to] {
				assert.NoError(t, err, "%s -> %s should be allowed", from, to)
				continue
			}

			var invalid *order.InvalidTransitionError
			require.ErrorAs(t, err, &invalid, "%s -> %s should be rejected", from, to)
			assert.Equal(t, from, invalid.From)
			assert.Equal(t, to, invalid.To)
		}
	}
}

func TestValidateTransition_SkippingStageRejected(t *testing.T) {
	rules := order.DefaultRules()

	err := rules.ValidateTransition(order.StatusPending, order.StatusOutForDelivery)

	var invalid *order.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, order.StatusPending, invalid.From)
	assert.Equal(t, order.StatusOutForDelivery, invalid.To)
}

func TestValidateTransition_CancelFromOutForDeliveryPolicy(t *testing.T) {
	strict := order.Rules{CancelFromOutForDelivery: false}

	err := strict.ValidateTransition(order.StatusOutForDelivery, order.StatusCancelled)
	var invalid *order.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)

	lenient := order.Rules{CancelFromOutForDelivery: true}
	assert.NoError(t, lenient.ValidateTransition(order.StatusOutForDelivery, order.StatusCancelled))
}

func TestApplyTransition_Delivered(t *testing.T) {
	rules := order.DefaultRules()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	o := &order.Order{Status: order.StatusOutForDelivery}

	err := rules.ApplyTransition(o, order.StatusDelivered, "", now)

	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, now, *o.DeliveredAt)
	assert.Equal(t, now, o.UpdatedAt)
	assert.Nil(t, o.CancelledAt)
}

func TestApplyTransition_CancelRequiresReason(t *testing.T) {
	rules := order.DefaultRules()
	o := &order.Order{Status: order.StatusPending}

	err := rules.ApplyTransition(o, order.StatusCancelled, "", time.Now())

	require.ErrorIs(t, err, order.ErrCancellationReasonRequired)
	assert.Equal(t, order.StatusPending, o.Status, "order must be left unchanged")
	assert.Nil(t, o.CancelledAt)
}

func TestApplyTransition_Cancelled(t *testing.T) {
	rules := order.DefaultRules()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	o := &order.Order{Status: order.StatusConfirmed}

	err := rules.ApplyTransition(o, order.StatusCancelled, "customer changed mind", now)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
	assert.Equal(t, "customer changed mind", o.CancellationReason)
	require.NotNil(t, o.CancelledAt)
	assert.Equal(t, now, *o.CancelledAt)
}

func TestApplyTransition_TerminalStatusFrozen(t *testing.T) {
	rules := order.DefaultRules()

	delivered := &order.Order{Status: order.StatusDelivered}
	err := rules.ApplyTransition(delivered, order.StatusCancelled, "too late", time.Now())

	var invalid *order.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, order.StatusDelivered, delivered.Status)

	cancelled := &order.Order{Status: order.StatusCancelled}
	err = rules.ApplyTransition(cancelled, order.StatusConfirmed, "", time.Now())
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)
}

func TestParseStatus(t *testing.T) {
	got, err := order.ParseStatus("out_for_delivery")
	require.NoError(t, err)
	assert.Equal(t, order.StatusOutForDelivery, got)

	_, err = order.ParseStatus("shipped")
	assert.Error(t, err)
}
