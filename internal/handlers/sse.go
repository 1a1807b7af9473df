package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

var kpiTilesTemplate = template.Must(template.New("kpiTiles").Parse(`
<div id="kpi-tiles" class="tiles">
{{range .}}<div class="tile"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>`))

type SSEHandlers struct {
	store  *services.Store
	logger *slog.Logger
}

func NewSSEHandlers(store *services.Store, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{store: store, logger: logger}
}

func (h *SSEHandlers) renderKPITiles(tiles []models.KPITile) (string, error) {
	var buf strings.Builder
	err := kpiTilesTemplate.Execute(&buf, tiles)
	return buf.String(), err
}

// selectionFromRequest prefers the datastar signals the bound selectors
// send with the request; plain query parameters keep the endpoint usable
// without a browser.
func selectionFromRequest(r *http.Request) models.FilterSelection {
	var signals models.FilterSelection
	if err := datastar.ReadSignals(r, &signals); err == nil && signals != (models.FilterSelection{}) {
		sel := models.DefaultSelection()
		for _, f := range models.FilterFields {
			sel = sel.WithField(f.Param, signals.Field(f.Param))
		}
		return sel
	}
	return selectionFromQuery(r)
}

// HandleDashboard is one full recompute pass: read the current selection,
// rebuild the display model, patch the KPI tiles and push all five chart
// tables as signals. Zero matching rows patches zeroed tiles and empty
// charts, never an error.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sel := selectionFromRequest(r)
	model := services.BuildDisplayModel(h.store.Records(), sel)

	html, err := h.renderKPITiles(model.KPITiles)
	if err != nil {
		h.logger.Error("render kpi tiles", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"monthlyData":     model.MonthlySales,
		"productsData":    model.TopProducts,
		"regionsData":     model.RegionProfit,
		"subcategoryData": model.SubCategory,
		"customersData":   model.TopCustomers,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
