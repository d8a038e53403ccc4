package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/foodcourt/orders/internal/service/services/ordersvc"
	"github.com/foodcourt/orders/internal/transport/http/middleware/auth"
	cancelorder "github.com/foodcourt/orders/internal/transport/http/v1/cancel_order"
	createorder "github.com/foodcourt/orders/internal/transport/http/v1/create_order"
	getorder "github.com/foodcourt/orders/internal/transport/http/v1/get_order"
	listorders "github.com/foodcourt/orders/internal/transport/http/v1/list_orders"
	updatestatus "github.com/foodcourt/orders/internal/transport/http/v1/update_status"
	"github.com/foodcourt/orders/internal/transport/ws"
	metricsmw "github.com/foodcourt/orders/pkg/http/middleware/metrics"
	tracemw "github.com/foodcourt/orders/pkg/http/middleware/trace"
	"github.com/foodcourt/orders/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type service interface {
	CreateOrder(ctx context.Context, actor ordersvc.Actor, input ordersvc.CreateOrderInput) (order.Order, error)
	GetOrder(ctx context.Context, actor ordersvc.Actor, id int64) (order.Order, error)
	ListOrders(ctx context.Context, actor ordersvc.Actor, filter order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, actor ordersvc.Actor, orderID int64, target order.Status, reason string) (order.Order, error)
	CancelOrder(ctx context.Context, actor ordersvc.Actor, orderID int64, reason string) (order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
	hub     *ws.Hub
	metrics *metricsmw.ServerMetrics
}

func NewHTTPTransport(service service, hub *ws.Hub) *HTTPTransport {
	metrics := metricsmw.NewServerMetrics("orders")
	router := newRouter(metrics)
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
		hub:     hub,
		metrics: metrics,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Use(auth.NewAuthMiddleware)
		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Patch("/orders/{id}/status", h.updateStatus)
		r.Post("/orders/{id}/cancel", h.cancelOrder)
	})
	h.router.Get("/ws", h.hub.HandleWS)
	h.router.Get("/metrics", metricsmw.Handler().ServeHTTP)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.service)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	cancelorder.CancelOrder(w, r, h.service)
}

func newRouter(metrics *metricsmw.ServerMetrics) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(tracemw.NewTraceMiddleware)
	router.Use(metrics.Middleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
