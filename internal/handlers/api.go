package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

type APIHandlers struct {
	store  *services.Store
	logger *slog.Logger
}

func NewAPIHandlers(store *services.Store, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		store:  store,
		logger: logger,
	}
}

// selectionFromQuery builds a filter selection from the six query
// parameters. Absent or empty parameters mean "All".
func selectionFromQuery(r *http.Request) models.FilterSelection {
	q := r.URL.Query()
	sel := models.DefaultSelection()
	for _, f := range models.FilterFields {
		sel = sel.WithField(f.Param, q.Get(f.Param))
	}
	return sel
}

// filtered returns the filtered view for the request's selection.
func (h *APIHandlers) filtered(r *http.Request) []models.Record {
	return services.ApplyFilters(h.store.Records(), selectionFromQuery(r))
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	kpis := services.ComputeKPIs(h.filtered(r), h.store.Records())
	errors.WriteSuccessWithHeaders(w, kpis, cacheHeaders)
}

func (h *APIHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	data := services.MonthlySalesTrend(h.filtered(r))
	errors.WriteSuccessWithHeaders(w, data, cacheHeaders)
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	data := services.TopProductsBySales(h.filtered(r))
	errors.WriteSuccessWithHeaders(w, data, cacheHeaders)
}

func (h *APIHandlers) HandleProfitByRegion(w http.ResponseWriter, r *http.Request) {
	data := services.ProfitByRegion(h.filtered(r))
	errors.WriteSuccessWithHeaders(w, data, cacheHeaders)
}

func (h *APIHandlers) HandleSubCategoryProfit(w http.ResponseWriter, r *http.Request) {
	data := services.LeastProfitableSubCategories(h.filtered(r))
	errors.WriteSuccessWithHeaders(w, data, cacheHeaders)
}

func (h *APIHandlers) HandleTopCustomers(w http.ResponseWriter, r *http.Request) {
	data := services.TopCustomersBySales(h.filtered(r))
	errors.WriteSuccessWithHeaders(w, data, cacheHeaders)
}

// HandleFilters returns the six selector definitions, options derived from
// the unfiltered dataset only.
func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	sel := selectionFromQuery(r)
	records := h.store.Records()

	filters := make([]models.FilterOptions, 0, len(models.FilterFields))
	for _, field := range models.FilterFields {
		filters = append(filters, models.FilterOptions{
			Param:    field.Param,
			Label:    field.Label,
			Options:  append([]string{models.AllOption}, services.DistinctValues(records, field)...),
			Selected: sel.Field(field.Param),
		})
	}

	errors.WriteSuccessWithHeaders(w, filters, cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.store.Stats())
}
