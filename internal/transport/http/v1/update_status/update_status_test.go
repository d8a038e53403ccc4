package updatestatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/services/ordersvc"
	"github.com/foodcourt/orders/internal/transport/http/middleware/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	updateStatusFunc func(ctx context.Context, actor ordersvc.Actor, orderID int64, target order.Status, reason string) (order.Order, error)
}

func (m *mockService) UpdateStatus(ctx context.Context, actor ordersvc.Actor, orderID int64, target order.Status, reason string) (order.Order, error) {
	return m.updateStatusFunc(ctx, actor, orderID, target, reason)
}

func doRequest(t *testing.T, svc service, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Use(auth.NewAuthMiddleware)
	router.Patch("/api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		UpdateStatus(w, r, svc)
	})

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	adminHeaders := map[string]string{auth.HeaderUserID: "1", auth.HeaderRole: "admin"}

	t.Run("advances status", func(t *testing.T) {
		t.Parallel()

		var gotID int64
		var gotTarget order.Status

		svc := &mockService{
			updateStatusFunc: func(_ context.Context, _ ordersvc.Actor, orderID int64, target order.Status, _ string) (order.Order, error) {
				gotID = orderID
				gotTarget = target

				return order.Order{ID: orderID, Status: target}, nil
			},
		}

		rec := doRequest(t, svc, "/api/orders/42/status", `{"status":"preparing"}`, adminHeaders)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), gotID)
		assert.Equal(t, order.StatusPreparing, gotTarget)
		assert.Contains(t, rec.Body.String(), `"success":true`)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			updateStatusFunc: func(context.Context, ordersvc.Actor, int64, order.Status, string) (order.Order, error) {
				t.Fatal("service must not be called")

				return order.Order{}, nil
			},
		}

		rec := doRequest(t, svc, "/api/orders/42/status", `{"status":"teleported"}`, adminHeaders)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects non-numeric id", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			updateStatusFunc: func(context.Context, ordersvc.Actor, int64, order.Status, string) (order.Order, error) {
				t.Fatal("service must not be called")

				return order.Order{}, nil
			},
		}

		rec := doRequest(t, svc, "/api/orders/abc/status", `{"status":"confirmed"}`, adminHeaders)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps invalid transition to bad request", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			updateStatusFunc: func(context.Context, ordersvc.Actor, int64, order.Status, string) (order.Order, error) {
				return order.Order{}, &order.InvalidTransitionError{From: order.StatusPending, To: order.StatusDelivered}
			},
		}

		rec := doRequest(t, svc, "/api/orders/42/status", `{"status":"delivered"}`, adminHeaders)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "pending")
	})

	t.Run("maps forbidden", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			updateStatusFunc: func(context.Context, ordersvc.Actor, int64, order.Status, string) (order.Order, error) {
				return order.Order{}, ordersvc.ErrForbidden
			},
		}

		rec := doRequest(t, svc, "/api/orders/42/status",
			`{"status":"confirmed"}`, map[string]string{auth.HeaderUserID: "9"})

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("maps not found", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{
			updateStatusFunc: func(context.Context, ordersvc.Actor, int64, order.Status, string) (order.Order, error) {
				return order.Order{}, order.ErrOrderNotFound
			},
		}

		rec := doRequest(t, svc, "/api/orders/42/status", `{"status":"confirmed"}`, adminHeaders)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
