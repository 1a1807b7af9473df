package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"superstore-dashboard/internal/services"
)

// The shell is a single server-rendered page. Selector changes are wired
// through datastar: each change hits /sse/dashboard, which patches the KPI
// tiles and pushes fresh chart data as signals; ECharts redraws from the
// data-effect hooks below.
var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>SuperStore KPI Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/echarts@5/dist/echarts.min.js"></script>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Arial;margin:0;display:flex;background:#f5f6fa;color:#1f2430}
aside{width:260px;min-height:100vh;background:#1f2430;color:#e8ecff;padding:20px;box-sizing:border-box}
aside h2{margin-top:0;font-size:18px}
aside label{display:block;margin:14px 0 4px;font-size:13px;color:#9aa7cf}
aside select{width:100%;padding:6px;border-radius:6px;border:1px solid #3a4360;background:#2a3148;color:#e8ecff}
main{flex:1;padding:24px;box-sizing:border-box}
.tiles{display:grid;grid-template-columns:repeat(5,1fr);gap:12px}
.tile{background:#fff;border-radius:10px;padding:16px;box-shadow:0 1px 3px rgba(0,0,0,.08)}
.tile .label{font-size:12px;color:#6b7280}
.tile .value{font-size:22px;font-weight:600;margin-top:6px}
.chart{background:#fff;border-radius:10px;margin-top:16px;padding:12px;height:360px;box-shadow:0 1px 3px rgba(0,0,0,.08)}
</style>
</head>
<body data-signals="{monthlyData:[],productsData:[],regionsData:[],subcategoryData:[],customersData:[]}"
      data-on-load="@get('/sse/dashboard')">
<aside>
<h2>Filters</h2>
{{range .Filters}}
<label for="{{.Param}}">{{.Label}}</label>
<select id="{{.Param}}" data-bind-{{.Param}} data-on-change="@get('/sse/dashboard')">
{{$selected := .Selected}}{{range .Options}}<option value="{{.}}"{{if eq . $selected}} selected{{end}}>{{.}}</option>
{{end}}</select>
{{end}}
</aside>
<main>
<div id="kpi-tiles" class="tiles">
{{range .KPITiles}}<div class="tile"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>
<div class="chart" id="chart-monthly" data-effect="renderLine('chart-monthly','Monthly Sales Trend',$monthlyData.map(d=>d.month),$monthlyData.map(d=>d.sales))"></div>
<div class="chart" id="chart-products" data-effect="renderHBar('chart-products','Top 10 Products',$productsData.map(d=>d.product),$productsData.map(d=>d.sales))"></div>
<div class="chart" id="chart-regions" data-effect="renderBar('chart-regions','Profit by Region',$regionsData.map(d=>d.region),$regionsData.map(d=>d.profit))"></div>
<div class="chart" id="chart-subcategories" data-effect="renderHBar('chart-subcategories','Least Profitable Sub-Categories',$subcategoryData.map(d=>d.subcategory),$subcategoryData.map(d=>d.profit))"></div>
<div class="chart" id="chart-customers" data-effect="renderHBar('chart-customers','Top 10 Customers by Sales',$customersData.map(d=>d.customer),$customersData.map(d=>d.sales))"></div>
</main>
<script>
const charts = {};
function chartAt(id){ charts[id] = charts[id] || echarts.init(document.getElementById(id)); return charts[id]; }
function renderLine(id, title, labels, values){
  chartAt(id).setOption({title:{text:title}, tooltip:{}, xAxis:{type:'category',data:labels}, yAxis:{type:'value'}, series:[{type:'line',data:values}]});
}
function renderBar(id, title, labels, values){
  chartAt(id).setOption({title:{text:title}, tooltip:{}, xAxis:{type:'category',data:labels}, yAxis:{type:'value'}, series:[{type:'bar',data:values}]});
}
function renderHBar(id, title, labels, values){
  chartAt(id).setOption({title:{text:title}, tooltip:{}, xAxis:{type:'value'}, yAxis:{type:'category',data:labels.slice().reverse()}, series:[{type:'bar',data:values.slice().reverse()}]});
}
</script>
</body>
</html>`))

type DashboardHandlers struct {
	store  *services.Store
	logger *slog.Logger
}

func NewDashboardHandlers(store *services.Store, logger *slog.Logger) *DashboardHandlers {
	return &DashboardHandlers{store: store, logger: logger}
}

// HandleDashboard renders the full shell for the selection carried in the
// query string, selector options populated from the unfiltered dataset.
func (h *DashboardHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel := selectionFromQuery(r)
	model := services.BuildDisplayModel(h.store.Records(), sel)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, model); err != nil {
		h.logger.Error("render dashboard", "error", err)
	}
}
