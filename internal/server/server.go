package server

import (
	"log/slog"
	"net/http"

	"superstore-dashboard/internal/handlers"
	"superstore-dashboard/internal/services"
)

type Server struct {
	store             *services.Store
	mux               *http.ServeMux
	logger            *slog.Logger
	dashboardHandlers *handlers.DashboardHandlers
	apiHandlers       *handlers.APIHandlers
	sseHandlers       *handlers.SSEHandlers
}

func NewServer(store *services.Store, logger *slog.Logger) *Server {
	s := &Server{
		store:             store,
		mux:               http.NewServeMux(),
		logger:            logger,
		dashboardHandlers: handlers.NewDashboardHandlers(store, logger),
		apiHandlers:       handlers.NewAPIHandlers(store, logger),
		sseHandlers:       handlers.NewSSEHandlers(store, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard shell
	s.mux.HandleFunc("GET /{$}", s.dashboardHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints; all take the six filter query parameters
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)
	s.mux.HandleFunc("GET /api/monthly-sales", s.apiHandlers.HandleMonthlySales)
	s.mux.HandleFunc("GET /api/top-products", s.apiHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /api/profit-by-region", s.apiHandlers.HandleProfitByRegion)
	s.mux.HandleFunc("GET /api/subcategory-profit", s.apiHandlers.HandleSubCategoryProfit)
	s.mux.HandleFunc("GET /api/top-customers", s.apiHandlers.HandleTopCustomers)

	// Datastar SSE: one full recompute pass per selector change
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
