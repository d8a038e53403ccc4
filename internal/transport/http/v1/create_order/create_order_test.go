package createorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/pricing"
	"github.com/foodcourt/orders/internal/service/services/ordersvc"
	"github.com/foodcourt/orders/internal/transport/http/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	createOrderFunc func(ctx context.Context, actor ordersvc.Actor, input ordersvc.CreateOrderInput) (order.Order, error)
}

func (m *mockService) CreateOrder(ctx context.Context, actor ordersvc.Actor, input ordersvc.CreateOrderInput) (order.Order, error) {
	return m.createOrderFunc(ctx, actor, input)
}

func doRequest(t *testing.T, svc service, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler := auth.NewAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		CreateOrder(w, r, svc)
	}))
	handler.ServeHTTP(rec, req)

	return rec
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	userHeaders := map[string]string{auth.HeaderUserID: "7"}

	t.Run("creates order and echoes amounts", func(t *testing.T) {
		t.Parallel()

		var gotInput ordersvc.CreateOrderInput
		var gotActor ordersvc.Actor

		svc := &mockService{
			createOrderFunc: func(_ context.Context, actor ordersvc.Actor, input ordersvc.CreateOrderInput) (order.Order, error) {
				gotActor = actor
				gotInput = input

				return order.Order{
					ID:          1,
					OrderNumber: "ORD-20250810-ABCDEF123456",
					UserID:      actor.UserID,
					TotalCents:  2500,
					FinalCents:  3250,
					Status:      order.StatusPending,
				}, nil
			},
		}

		body := `{"items":[{"foodItemId":10,"quantity":2,"specialRequests":"no onions"}],"addressId":3}`
		rec := doRequest(t, svc, body, userHeaders)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
		assert.Contains(t, rec.Body.String(), `"ORD-20250810-ABCDEF123456"`)
		assert.Equal(t, int64(7), gotActor.UserID)
		require.Len(t, gotInput.Lines, 1)
		assert.Equal(t, pricing.LineInput{FoodItemID: 10, Quantity: 2, SpecialRequests: "no onions"}, gotInput.Lines[0])
		assert.Equal(t, int64(3), gotInput.AddressID)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			createOrderFunc: func(context.Context, ordersvc.Actor, ordersvc.CreateOrderInput) (order.Order, error) {
				t.Fatal("service must not be called")

				return order.Order{}, nil
			},
		}

		rec := doRequest(t, svc, `{"items":[],"addressId":3}`, userHeaders)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			createOrderFunc: func(context.Context, ordersvc.Actor, ordersvc.CreateOrderInput) (order.Order, error) {
				t.Fatal("service must not be called")

				return order.Order{}, nil
			},
		}

		rec := doRequest(t, svc, `{not json`, userHeaders)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects missing identity", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			createOrderFunc: func(context.Context, ordersvc.Actor, ordersvc.CreateOrderInput) (order.Order, error) {
				t.Fatal("service must not be called")

				return order.Order{}, nil
			},
		}

		rec := doRequest(t, svc, `{"items":[{"foodItemId":10,"quantity":1}]}`, nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("maps unavailable item to bad request", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			createOrderFunc: func(context.Context, ordersvc.Actor, ordersvc.CreateOrderInput) (order.Order, error) {
				return order.Order{}, &pricing.ItemUnavailableError{FoodItemID: 10}
			},
		}

		rec := doRequest(t, svc, `{"items":[{"foodItemId":10,"quantity":1}],"addressId":3}`, userHeaders)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "10")
	})
}
