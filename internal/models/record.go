package models

import "time"

// Record is one line item of the Superstore export. An order may span
// multiple records, so OrderID is not unique per row. Categorical fields
// that are blank in the source sheet stay empty strings and never match a
// concrete filter value.
type Record struct {
	OrderID      string
	OrderDate    time.Time
	Region       string
	State        string
	Category     string
	SubCategory  string
	Segment      string
	CustomerName string
	ProductName  string
	Sales        float64
	Profit       float64
	Quantity     int
}

// AllOption is the selector value that imposes no constraint.
const AllOption = "All"

// FilterSelection holds the six sidebar selector values. Zero value is not
// meaningful; use DefaultSelection.
type FilterSelection struct {
	Region      string `json:"region"`
	State       string `json:"state"`
	Category    string `json:"category"`
	SubCategory string `json:"subcategory"`
	Segment     string `json:"segment"`
	Customer    string `json:"customer"`
}

// DefaultSelection returns the unconstrained selection.
func DefaultSelection() FilterSelection {
	return FilterSelection{
		Region:      AllOption,
		State:       AllOption,
		Category:    AllOption,
		SubCategory: AllOption,
		Segment:     AllOption,
		Customer:    AllOption,
	}
}

// FilterField describes one filterable categorical column: its sheet column
// key, its query/signal name, and how to read it from a record.
type FilterField struct {
	Column string
	Param  string
	Label  string
	Value  func(Record) string
}

// FilterFields lists the six filterable columns in sidebar order.
var FilterFields = []FilterField{
	{Column: "Region", Param: "region", Label: "Select Region", Value: func(r Record) string { return r.Region }},
	{Column: "State", Param: "state", Label: "Select State", Value: func(r Record) string { return r.State }},
	{Column: "Category", Param: "category", Label: "Select Category", Value: func(r Record) string { return r.Category }},
	{Column: "Sub-Category", Param: "subcategory", Label: "Select Sub-Category", Value: func(r Record) string { return r.SubCategory }},
	{Column: "Segment", Param: "segment", Label: "Select Customer Segment", Value: func(r Record) string { return r.Segment }},
	{Column: "Customer Name", Param: "customer", Label: "Select Customer", Value: func(r Record) string { return r.CustomerName }},
}

// Field returns the selection value for a filter field param name.
func (s FilterSelection) Field(param string) string {
	switch param {
	case "region":
		return s.Region
	case "state":
		return s.State
	case "category":
		return s.Category
	case "subcategory":
		return s.SubCategory
	case "segment":
		return s.Segment
	case "customer":
		return s.Customer
	}
	return AllOption
}

// WithField returns a copy of the selection with one field replaced. Empty
// values normalize to AllOption so an absent query parameter means "All".
func (s FilterSelection) WithField(param, value string) FilterSelection {
	if value == "" {
		value = AllOption
	}
	switch param {
	case "region":
		s.Region = value
	case "state":
		s.State = value
	case "category":
		s.Category = value
	case "subcategory":
		s.SubCategory = value
	case "segment":
		s.Segment = value
	case "customer":
		s.Customer = value
	}
	return s
}

// Matches reports whether a record passes every non-All field of the
// selection. Filters compose as a logical AND, so order is irrelevant.
func (s FilterSelection) Matches(r Record) bool {
	for _, f := range FilterFields {
		want := s.Field(f.Param)
		if want != AllOption && f.Value(r) != want {
			return false
		}
	}
	return true
}

// KPISet holds the five summary metrics in their raw numeric form.
// TotalSales and TotalProfit are in millions; ReturnRate and MarginRate are
// percentages; AvgOrderValue is in dollars.
type KPISet struct {
	TotalSalesM   float64 `json:"total_sales_m"`
	TotalProfitM  float64 `json:"total_profit_m"`
	ReturnRate    float64 `json:"return_rate"`
	MarginRate    float64 `json:"margin_rate"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

type MonthlySales struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
}

type ProductSales struct {
	Product string  `json:"product"`
	Sales   float64 `json:"sales"`
}

type RegionProfit struct {
	Region string  `json:"region"`
	Profit float64 `json:"profit"`
}

type SubCategoryProfit struct {
	SubCategory string  `json:"subcategory"`
	Profit      float64 `json:"profit"`
}

type CustomerSales struct {
	Customer string  `json:"customer"`
	Sales    float64 `json:"sales"`
}

// FilterOptions is one selector definition for the presentation layer:
// label, option list (with the leading "All"), and the current choice.
type FilterOptions struct {
	Param    string   `json:"param"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

// DisplayModel is everything one render pass produces: the formatted KPI
// tiles, the five chart tables, the selector definitions, and the current
// selection. It is a pure function of (dataset, selection); see
// services.BuildDisplayModel.
type DisplayModel struct {
	Selection    FilterSelection     `json:"selection"`
	Filters      []FilterOptions     `json:"filters"`
	KPIs         KPISet              `json:"kpis"`
	KPITiles     []KPITile           `json:"kpi_tiles"`
	MonthlySales []MonthlySales      `json:"monthly_sales"`
	TopProducts  []ProductSales      `json:"top_products"`
	RegionProfit []RegionProfit      `json:"region_profit"`
	SubCategory  []SubCategoryProfit `json:"subcategory_profit"`
	TopCustomers []CustomerSales     `json:"top_customers"`
	RowCount     int                 `json:"row_count"`
}

// KPITile is one metric tile: label plus display-formatted value.
type KPITile struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
