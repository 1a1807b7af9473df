package models

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display formats follow the source dashboard: "$1,234.56M" for the million
// totals, "12.34%" for rates, "$1,234.56" for average order value.

var englishPrinter = message.NewPrinter(language.English)

func FormatMillions(v float64) string {
	return englishPrinter.Sprintf("$%.2fM", v)
}

func FormatPercent(v float64) string {
	return englishPrinter.Sprintf("%.2f%%", v)
}

func FormatDollars(v float64) string {
	return englishPrinter.Sprintf("$%.2f", v)
}

// Tiles returns the five KPI tiles in display order.
func (k KPISet) Tiles() []KPITile {
	return []KPITile{
		{Label: "Total Sales (in Millions)", Value: FormatMillions(k.TotalSalesM)},
		{Label: "Total Profit (in Millions)", Value: FormatMillions(k.TotalProfitM)},
		{Label: "Return Rate (%)", Value: FormatPercent(k.ReturnRate)},
		{Label: "Margin Rate (%)", Value: FormatPercent(k.MarginRate)},
		{Label: "Avg Order Value ($)", Value: FormatDollars(k.AvgOrderValue)},
	}
}
