package getorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/services/ordersvc"
	"github.com/foodcourt/orders/internal/transport/http/middleware/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	getOrderFunc func(ctx context.Context, actor ordersvc.Actor, id int64) (order.Order, error)
}

func (m *mockService) GetOrder(ctx context.Context, actor ordersvc.Actor, id int64) (order.Order, error) {
	return m.getOrderFunc(ctx, actor, id)
}

func doRequest(t *testing.T, svc service, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Use(auth.NewAuthMiddleware)
	router.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetOrder(w, r, svc)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestGetOrder(t *testing.T) {
	t.Parallel()

	t.Run("returns order for owner", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			getOrderFunc: func(_ context.Context, actor ordersvc.Actor, id int64) (order.Order, error) {
				return order.Order{ID: id, UserID: actor.UserID, OrderNumber: "ORD-20250810-ABCDEF123456"}, nil
			},
		}

		rec := doRequest(t, svc, "/api/orders/5", map[string]string{auth.HeaderUserID: "7"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ORD-20250810-ABCDEF123456"`)
	})

	t.Run("maps not found", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			getOrderFunc: func(context.Context, ordersvc.Actor, int64) (order.Order, error) {
				return order.Order{}, order.ErrOrderNotFound
			},
		}

		rec := doRequest(t, svc, "/api/orders/5", map[string]string{auth.HeaderUserID: "7"})

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("maps foreign order to forbidden", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			getOrderFunc: func(context.Context, ordersvc.Actor, int64) (order.Order, error) {
				return order.Order{}, ordersvc.ErrForbidden
			},
		}

		rec := doRequest(t, svc, "/api/orders/5", map[string]string{auth.HeaderUserID: "7"})

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
