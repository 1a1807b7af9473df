// Package report renders one display model outside the server: a
// self-contained HTML file with the five dashboard charts, and console
// tables for the KPI and aggregate views.
package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"superstore-dashboard/internal/models"
)

// WriteHTML renders the five charts of the display model into w as one
// scrollable page. Empty aggregate tables render as empty charts.
func WriteHTML(w io.Writer, model models.DisplayModel) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		monthlyLine(model.MonthlySales),
		productsBar(model.TopProducts),
		regionsBar(model.RegionProfit),
		subCategoryBar(model.SubCategory),
		customersBar(model.TopCustomers),
	)
	return page.Render(w)
}

func monthlyLine(rows []models.MonthlySales) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Monthly Sales Trend"}))

	months := make([]string, 0, len(rows))
	data := make([]opts.LineData, 0, len(rows))
	for _, r := range rows {
		months = append(months, r.Month)
		data = append(data, opts.LineData{Value: r.Sales})
	}
	line.SetXAxis(months).AddSeries("Sales", data)
	return line
}

func productsBar(rows []models.ProductSales) *charts.Bar {
	labels := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	// Reversed so the largest bar sits on top of the horizontal chart.
	for i := len(rows) - 1; i >= 0; i-- {
		labels = append(labels, rows[i].Product)
		data = append(data, opts.BarData{Value: rows[i].Sales})
	}
	return horizontalBar("Top 10 Products", "Sales", labels, data)
}

func regionsBar(rows []models.RegionProfit) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Profit by Region"}))

	labels := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, r.Region)
		data = append(data, opts.BarData{Value: r.Profit})
	}
	bar.SetXAxis(labels).AddSeries("Profit", data)
	return bar
}

func subCategoryBar(rows []models.SubCategoryProfit) *charts.Bar {
	labels := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		labels = append(labels, rows[i].SubCategory)
		data = append(data, opts.BarData{Value: rows[i].Profit})
	}
	return horizontalBar("Least Profitable Sub-Categories", "Profit", labels, data)
}

func customersBar(rows []models.CustomerSales) *charts.Bar {
	labels := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		labels = append(labels, rows[i].Customer)
		data = append(data, opts.BarData{Value: rows[i].Sales})
	}
	return horizontalBar("Top 10 Customers by Sales", "Sales", labels, data)
}

func horizontalBar(title, series string, labels []string, data []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(labels).AddSeries(series, data)
	bar.XYReversal()
	return bar
}
