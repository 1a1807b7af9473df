package services

import (
	"slices"
	"sort"
	"strings"

	"superstore-dashboard/internal/models"
)

const topN = 10

// DistinctValues returns the sorted distinct non-empty values a filter
// field takes in the given records. Selector options always come from the
// unfiltered dataset, never from a filtered view.
func DistinctValues(records []models.Record, field models.FilterField) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if v := field.Value(r); v != "" {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// ApplyFilters reduces the dataset to the rows matching every non-All field
// of the selection. The six filters AND together, so a single combined
// predicate per row is enough. An empty result is valid.
func ApplyFilters(records []models.Record, sel models.FilterSelection) []models.Record {
	if sel == models.DefaultSelection() {
		return records
	}
	filtered := make([]models.Record, 0, len(records))
	for _, r := range records {
		if sel.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ComputeKPIs evaluates the five summary metrics over the filtered view.
// The unfiltered dataset is needed for Return Rate only.
//
// Return Rate is a proxy, kept bit-for-bit compatible with the source
// dashboard: an Order ID that appears on two or more rows of the unfiltered
// dataset is treated as a return/split order, and the numerator is the
// filtered-row sales carrying such IDs over the unfiltered sales total. The
// dataset has no real "returned" flag, so this approximation stands until
// product says otherwise.
func ComputeKPIs(filtered, dataset []models.Record) models.KPISet {
	rowsPerOrder := make(map[string]int, len(dataset))
	var datasetSales float64
	for _, r := range dataset {
		rowsPerOrder[r.OrderID]++
		datasetSales += r.Sales
	}

	var sales, profit, returnedSales float64
	orders := make(map[string]struct{})
	for _, r := range filtered {
		sales += r.Sales
		profit += r.Profit
		orders[r.OrderID] = struct{}{}
		if rowsPerOrder[r.OrderID] >= 2 {
			returnedSales += r.Sales
		}
	}

	k := models.KPISet{
		TotalSalesM:  sales / 1e6,
		TotalProfitM: profit / 1e6,
	}
	if datasetSales > 0 {
		k.ReturnRate = returnedSales / datasetSales * 100
	}
	if sales != 0 {
		k.MarginRate = profit / sales * 100
	}
	if len(orders) > 0 {
		k.AvgOrderValue = sales / float64(len(orders))
	}
	return k
}

// MonthlySalesTrend groups by calendar month of the order date and sums
// sales, chronologically ascending. The YYYY-MM key sorts in date order.
func MonthlySalesTrend(records []models.Record) []models.MonthlySales {
	byMonth := make(map[string]float64)
	for _, r := range records {
		byMonth[r.OrderDate.Format("2006-01")] += r.Sales
	}
	out := make([]models.MonthlySales, 0, len(byMonth))
	for month, sales := range byMonth {
		out = append(out, models.MonthlySales{Month: month, Sales: sales})
	}
	slices.SortFunc(out, func(a, b models.MonthlySales) int {
		return strings.Compare(a.Month, b.Month)
	})
	return out
}

// TopProductsBySales sums sales per product and keeps the ten largest,
// descending. Ties break ascending by name so output is deterministic.
func TopProductsBySales(records []models.Record) []models.ProductSales {
	byProduct := make(map[string]float64)
	for _, r := range records {
		byProduct[r.ProductName] += r.Sales
	}
	out := make([]models.ProductSales, 0, len(byProduct))
	for product, sales := range byProduct {
		out = append(out, models.ProductSales{Product: product, Sales: sales})
	}
	slices.SortFunc(out, func(a, b models.ProductSales) int {
		if c := compareDesc(a.Sales, b.Sales); c != 0 {
			return c
		}
		return strings.Compare(a.Product, b.Product)
	})
	return clampTop(out)
}

// ProfitByRegion sums profit per region. The bar set has no required order;
// regions sort by name so renders are stable.
func ProfitByRegion(records []models.Record) []models.RegionProfit {
	byRegion := make(map[string]float64)
	for _, r := range records {
		byRegion[r.Region] += r.Profit
	}
	out := make([]models.RegionProfit, 0, len(byRegion))
	for region, profit := range byRegion {
		out = append(out, models.RegionProfit{Region: region, Profit: profit})
	}
	slices.SortFunc(out, func(a, b models.RegionProfit) int {
		return strings.Compare(a.Region, b.Region)
	})
	return out
}

// LeastProfitableSubCategories sums profit per sub-category, ascending so
// the deepest losses come first.
func LeastProfitableSubCategories(records []models.Record) []models.SubCategoryProfit {
	bySubCat := make(map[string]float64)
	for _, r := range records {
		bySubCat[r.SubCategory] += r.Profit
	}
	out := make([]models.SubCategoryProfit, 0, len(bySubCat))
	for subcat, profit := range bySubCat {
		out = append(out, models.SubCategoryProfit{SubCategory: subcat, Profit: profit})
	}
	slices.SortFunc(out, func(a, b models.SubCategoryProfit) int {
		if a.Profit < b.Profit {
			return -1
		}
		if a.Profit > b.Profit {
			return 1
		}
		return strings.Compare(a.SubCategory, b.SubCategory)
	})
	return out
}

// TopCustomersBySales sums sales per customer and keeps the ten largest,
// descending, name-ascending on ties.
func TopCustomersBySales(records []models.Record) []models.CustomerSales {
	byCustomer := make(map[string]float64)
	for _, r := range records {
		byCustomer[r.CustomerName] += r.Sales
	}
	out := make([]models.CustomerSales, 0, len(byCustomer))
	for customer, sales := range byCustomer {
		out = append(out, models.CustomerSales{Customer: customer, Sales: sales})
	}
	slices.SortFunc(out, func(a, b models.CustomerSales) int {
		if c := compareDesc(a.Sales, b.Sales); c != 0 {
			return c
		}
		return strings.Compare(a.Customer, b.Customer)
	})
	return clampTop(out)
}

func compareDesc(a, b float64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}

func clampTop[T any](s []T) []T {
	if len(s) > topN {
		return s[:topN]
	}
	return s
}

// BuildDisplayModel is the whole render pass as a pure function of
// (dataset, selection): filter options from the unfiltered dataset, the
// filtered view, the five KPIs, and the five chart tables. Every selector
// change re-runs exactly this.
func BuildDisplayModel(dataset []models.Record, sel models.FilterSelection) models.DisplayModel {
	filters := make([]models.FilterOptions, 0, len(models.FilterFields))
	for _, field := range models.FilterFields {
		options := append([]string{models.AllOption}, DistinctValues(dataset, field)...)
		filters = append(filters, models.FilterOptions{
			Param:    field.Param,
			Label:    field.Label,
			Options:  options,
			Selected: sel.Field(field.Param),
		})
	}

	filtered := ApplyFilters(dataset, sel)
	kpis := ComputeKPIs(filtered, dataset)

	return models.DisplayModel{
		Selection:    sel,
		Filters:      filters,
		KPIs:         kpis,
		KPITiles:     kpis.Tiles(),
		MonthlySales: MonthlySalesTrend(filtered),
		TopProducts:  TopProductsBySales(filtered),
		RegionProfit: ProfitByRegion(filtered),
		SubCategory:  LeastProfitableSubCategories(filtered),
		TopCustomers: TopCustomersBySales(filtered),
		RowCount:     len(filtered),
	}
}
