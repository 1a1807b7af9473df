package report

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"superstore-dashboard/internal/models"
)

// minTableWidth keeps every aggregate table at least as wide as its
// longest title ("Least Profitable Sub-Categories") plus borders.
const minTableWidth = 40

// KPITable renders the five metric tiles as a two-column console table.
func KPITable(model models.DisplayModel) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"KPI", "Value"})
	for _, tile := range model.KPITiles {
		t.AppendRow(table.Row{tile.Label, tile.Value})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// AggregateTables renders the five chart tables in dashboard order.
func AggregateTables(model models.DisplayModel) []string {
	monthly := table.NewWriter()
	monthly.SetTitle("Monthly Sales Trend")
	monthly.AppendHeader(table.Row{"Month", "Sales"})
	for _, r := range model.MonthlySales {
		monthly.AppendRow(table.Row{r.Month, models.FormatDollars(r.Sales)})
	}

	products := table.NewWriter()
	products.SetTitle("Top 10 Products")
	products.AppendHeader(table.Row{"Product", "Sales"})
	for _, r := range model.TopProducts {
		products.AppendRow(table.Row{r.Product, models.FormatDollars(r.Sales)})
	}

	regions := table.NewWriter()
	regions.SetTitle("Profit by Region")
	regions.AppendHeader(table.Row{"Region", "Profit"})
	for _, r := range model.RegionProfit {
		regions.AppendRow(table.Row{r.Region, models.FormatDollars(r.Profit)})
	}

	subcats := table.NewWriter()
	subcats.SetTitle("Least Profitable Sub-Categories")
	subcats.AppendHeader(table.Row{"Sub-Category", "Profit"})
	for _, r := range model.SubCategory {
		subcats.AppendRow(table.Row{r.SubCategory, models.FormatDollars(r.Profit)})
	}

	customers := table.NewWriter()
	customers.SetTitle("Top 10 Customers by Sales")
	customers.AppendHeader(table.Row{"Customer", "Sales"})
	for _, r := range model.TopCustomers {
		customers.AppendRow(table.Row{r.Customer, models.FormatDollars(r.Sales)})
	}

	out := make([]string, 0, 5)
	for _, t := range []table.Writer{monthly, products, regions, subcats, customers} {
		t.SetStyle(table.StyleLight)
		// Titles wrap at the table's natural width, so a two-column table
		// narrower than its title renders the title broken across lines.
		s := t.Style()
		s.Size.WidthMin = minTableWidth
		out = append(out, t.Render())
	}
	return out
}
