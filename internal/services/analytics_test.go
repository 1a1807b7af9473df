package services

import (
	"math"
	"math/rand"
	"sort"
	"testing"
	"time"

	"superstore-dashboard/internal/models"
)

func mkDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// scenarioRecords is the three-row worked example: two line items of order
// A1 in the East, one order A2 in the West.
func scenarioRecords() []models.Record {
	return []models.Record{
		{
			OrderID: "A1", OrderDate: mkDate(2023, 1, 15),
			Region: "East", State: "NY", Category: "Cat1", SubCategory: "S1",
			Segment: "Consumer", CustomerName: "C1", ProductName: "P1",
			Sales: 100, Profit: 10, Quantity: 1,
		},
		{
			OrderID: "A1", OrderDate: mkDate(2023, 1, 20),
			Region: "East", State: "NY", Category: "Cat1", SubCategory: "S2",
			Segment: "Consumer", CustomerName: "C2", ProductName: "P2",
			Sales: 200, Profit: -20, Quantity: 2,
		},
		{
			OrderID: "A2", OrderDate: mkDate(2023, 2, 1),
			Region: "West", State: "CA", Category: "Cat1", SubCategory: "S1",
			Segment: "Corporate", CustomerName: "C1", ProductName: "P1",
			Sales: 50, Profit: 5, Quantity: 1,
		},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDistinctValues(t *testing.T) {
	records := scenarioRecords()
	records = append(records, models.Record{OrderID: "A3", OrderDate: mkDate(2023, 3, 1), Region: ""})

	regionField := models.FilterFields[0]
	got := DistinctValues(records, regionField)

	want := []string{"East", "West"}
	if len(got) != len(want) {
		t.Fatalf("DistinctValues() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DistinctValues()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if !sort.StringsAreSorted(got) {
		t.Error("DistinctValues() should be sorted ascending")
	}
}

func TestApplyFilters_AllIsIdentity(t *testing.T) {
	records := scenarioRecords()
	got := ApplyFilters(records, models.DefaultSelection())

	if len(got) != len(records) {
		t.Fatalf("all-All selection should keep every row, got %d of %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("row %d changed under all-All selection", i)
		}
	}
}

func TestApplyFilters_Subset(t *testing.T) {
	records := scenarioRecords()

	tests := []struct {
		name string
		sel  models.FilterSelection
		want int
	}{
		{"region east", models.DefaultSelection().WithField("region", "East"), 2},
		{"region west", models.DefaultSelection().WithField("region", "West"), 1},
		{"segment consumer", models.DefaultSelection().WithField("segment", "Consumer"), 2},
		{"customer c1", models.DefaultSelection().WithField("customer", "C1"), 2},
		{"east and corporate", models.DefaultSelection().WithField("region", "East").WithField("segment", "Corporate"), 0},
		{"no such state", models.DefaultSelection().WithField("state", "TX"), 0},
	}

	byIdentity := make(map[models.Record]bool, len(records))
	for _, r := range records {
		byIdentity[r] = true
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(records, tt.sel)
			if len(got) != tt.want {
				t.Fatalf("ApplyFilters() returned %d rows, want %d", len(got), tt.want)
			}
			for _, r := range got {
				if !byIdentity[r] {
					t.Errorf("filtered view contains row not in dataset: %+v", r)
				}
			}
		})
	}
}

func TestApplyFilters_NullNeverMatches(t *testing.T) {
	records := []models.Record{
		{OrderID: "A1", Region: "East", Sales: 10},
		{OrderID: "A2", Region: "", Sales: 20},
	}

	got := ApplyFilters(records, models.DefaultSelection().WithField("region", "East"))
	if len(got) != 1 || got[0].OrderID != "A1" {
		t.Errorf("blank region row should never match a concrete filter, got %+v", got)
	}
}

// AND composition means any application order yields the same rows.
func TestApplyFilters_OrderIndependent(t *testing.T) {
	records := scenarioRecords()
	sel := models.DefaultSelection().
		WithField("region", "East").
		WithField("segment", "Consumer").
		WithField("category", "Cat1")

	combined := ApplyFilters(records, sel)

	params := []string{"category", "segment", "region"}
	rand.New(rand.NewSource(1)).Shuffle(len(params), func(i, j int) {
		params[i], params[j] = params[j], params[i]
	})

	sequential := records
	for _, p := range params {
		one := models.DefaultSelection().WithField(p, sel.Field(p))
		sequential = ApplyFilters(sequential, one)
	}

	if len(combined) != len(sequential) {
		t.Fatalf("combined filter gave %d rows, sequential gave %d", len(combined), len(sequential))
	}
	for i := range combined {
		if combined[i] != sequential[i] {
			t.Errorf("row %d differs between combined and sequential application", i)
		}
	}
}

func TestComputeKPIs_Scenario(t *testing.T) {
	records := scenarioRecords()

	k := ComputeKPIs(records, records)

	if !almostEqual(k.TotalSalesM, 0.00035) {
		t.Errorf("TotalSalesM = %v, want 0.00035", k.TotalSalesM)
	}
	if !almostEqual(k.TotalProfitM, -0.000005) {
		t.Errorf("TotalProfitM = %v, want -0.000005", k.TotalProfitM)
	}
	if !almostEqual(k.AvgOrderValue, 175) {
		t.Errorf("AvgOrderValue = %v, want 175 (350 over 2 distinct orders)", k.AvgOrderValue)
	}
	// Order A1 repeats, so its 300 of sales counts as returned out of 350.
	if !almostEqual(k.ReturnRate, 300.0/350.0*100) {
		t.Errorf("ReturnRate = %v, want %v", k.ReturnRate, 300.0/350.0*100)
	}
}

func TestComputeKPIs_ScenarioEastFilter(t *testing.T) {
	records := scenarioRecords()
	filtered := ApplyFilters(records, models.DefaultSelection().WithField("region", "East"))

	k := ComputeKPIs(filtered, records)

	if !almostEqual(k.TotalSalesM, 0.0003) {
		t.Errorf("TotalSalesM = %v, want 0.0003", k.TotalSalesM)
	}
	if !almostEqual(k.MarginRate, -10.0/300.0*100) {
		t.Errorf("MarginRate = %v, want %v", k.MarginRate, -10.0/300.0*100)
	}
	// Both East rows belong to the duplicated order A1.
	if !almostEqual(k.ReturnRate, 300.0/350.0*100) {
		t.Errorf("ReturnRate = %v, want %v", k.ReturnRate, 300.0/350.0*100)
	}
}

func TestComputeKPIs_EmptyFilteredView(t *testing.T) {
	records := scenarioRecords()

	k := ComputeKPIs(nil, records)

	if k.TotalSalesM != 0 || k.TotalProfitM != 0 || k.MarginRate != 0 || k.AvgOrderValue != 0 || k.ReturnRate != 0 {
		t.Errorf("empty filtered view should zero every KPI, got %+v", k)
	}
}

func TestComputeKPIs_EmptyDataset(t *testing.T) {
	k := ComputeKPIs(nil, nil)

	// Zero denominators resolve to zero values, never a fault.
	if k != (models.KPISet{}) {
		t.Errorf("empty dataset should produce the zero KPISet, got %+v", k)
	}
}

func TestMonthlySalesTrend(t *testing.T) {
	records := scenarioRecords()

	got := MonthlySalesTrend(records)

	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if got[0].Month != "2023-01" || !almostEqual(got[0].Sales, 300) {
		t.Errorf("first bucket = %+v, want 2023-01 with 300", got[0])
	}
	if got[1].Month != "2023-02" || !almostEqual(got[1].Sales, 50) {
		t.Errorf("second bucket = %+v, want 2023-02 with 50", got[1])
	}

	for i := 1; i < len(got); i++ {
		if got[i].Month <= got[i-1].Month {
			t.Error("months should be strictly ascending")
		}
	}
}

func TestTopProductsBySales(t *testing.T) {
	records := scenarioRecords()

	got := TopProductsBySales(records)

	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[0].Product != "P2" || !almostEqual(got[0].Sales, 200) {
		t.Errorf("top product = %+v, want P2 with 200", got[0])
	}
	if got[1].Product != "P1" || !almostEqual(got[1].Sales, 150) {
		t.Errorf("second product = %+v, want P1 with 150", got[1])
	}
}

func TestTopN_BoundAndTieBreak(t *testing.T) {
	var records []models.Record
	for i := 0; i < 25; i++ {
		records = append(records, models.Record{
			OrderID:      "O1",
			OrderDate:    mkDate(2023, 1, 1),
			ProductName:  "Product" + string(rune('A'+i)),
			CustomerName: "Customer" + string(rune('A'+i)),
			Sales:        100, // all tied
		})
	}

	products := TopProductsBySales(records)
	if len(products) != 10 {
		t.Fatalf("expected top-N clamp at 10, got %d", len(products))
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].Product >= products[i].Product {
			t.Error("tied products should order ascending by name")
		}
	}

	customers := TopCustomersBySales(records)
	if len(customers) != 10 {
		t.Fatalf("expected top-N clamp at 10, got %d", len(customers))
	}

	// Fewer distinct values than N means fewer rows, never padding.
	few := TopProductsBySales(records[:3])
	if len(few) != 3 {
		t.Errorf("expected 3 products from 3 distinct names, got %d", len(few))
	}
}

func TestProfitByRegion(t *testing.T) {
	records := scenarioRecords()

	got := ProfitByRegion(records)

	if len(got) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(got))
	}
	for _, r := range got {
		switch r.Region {
		case "East":
			if !almostEqual(r.Profit, -10) {
				t.Errorf("East profit = %v, want -10", r.Profit)
			}
		case "West":
			if !almostEqual(r.Profit, 5) {
				t.Errorf("West profit = %v, want 5", r.Profit)
			}
		default:
			t.Errorf("unexpected region %q", r.Region)
		}
	}
}

func TestLeastProfitableSubCategories(t *testing.T) {
	records := scenarioRecords()

	got := LeastProfitableSubCategories(records)

	if len(got) != 2 {
		t.Fatalf("expected 2 sub-categories, got %d", len(got))
	}
	if got[0].SubCategory != "S2" || !almostEqual(got[0].Profit, -20) {
		t.Errorf("first sub-category = %+v, want S2 with -20", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Profit < got[i-1].Profit {
			t.Error("sub-category profit should be non-decreasing")
		}
	}
}

func TestAggregates_EmptyInput(t *testing.T) {
	if got := MonthlySalesTrend(nil); len(got) != 0 {
		t.Errorf("MonthlySalesTrend(nil) = %v, want empty", got)
	}
	if got := TopProductsBySales(nil); len(got) != 0 {
		t.Errorf("TopProductsBySales(nil) = %v, want empty", got)
	}
	if got := ProfitByRegion(nil); len(got) != 0 {
		t.Errorf("ProfitByRegion(nil) = %v, want empty", got)
	}
	if got := LeastProfitableSubCategories(nil); len(got) != 0 {
		t.Errorf("LeastProfitableSubCategories(nil) = %v, want empty", got)
	}
	if got := TopCustomersBySales(nil); len(got) != 0 {
		t.Errorf("TopCustomersBySales(nil) = %v, want empty", got)
	}
}

func TestBuildDisplayModel(t *testing.T) {
	records := scenarioRecords()
	sel := models.DefaultSelection().WithField("region", "East")

	model := BuildDisplayModel(records, sel)

	if model.RowCount != 2 {
		t.Errorf("RowCount = %d, want 2", model.RowCount)
	}
	if len(model.Filters) != 6 {
		t.Fatalf("expected 6 selector definitions, got %d", len(model.Filters))
	}

	// Options always come from the unfiltered dataset.
	region := model.Filters[0]
	if region.Param != "region" {
		t.Fatalf("first filter should be region, got %q", region.Param)
	}
	wantOptions := []string{"All", "East", "West"}
	if len(region.Options) != len(wantOptions) {
		t.Fatalf("region options = %v, want %v", region.Options, wantOptions)
	}
	for i := range wantOptions {
		if region.Options[i] != wantOptions[i] {
			t.Errorf("region option %d = %q, want %q", i, region.Options[i], wantOptions[i])
		}
	}
	if region.Selected != "East" {
		t.Errorf("region selected = %q, want East", region.Selected)
	}

	if len(model.KPITiles) != 5 {
		t.Errorf("expected 5 KPI tiles, got %d", len(model.KPITiles))
	}
	if len(model.MonthlySales) != 1 || model.MonthlySales[0].Month != "2023-01" {
		t.Errorf("East view should have one month 2023-01, got %v", model.MonthlySales)
	}
}

func TestBuildDisplayModel_ZeroRows(t *testing.T) {
	records := scenarioRecords()
	sel := models.DefaultSelection().WithField("state", "TX")

	model := BuildDisplayModel(records, sel)

	if model.RowCount != 0 {
		t.Fatalf("RowCount = %d, want 0", model.RowCount)
	}
	if len(model.MonthlySales) != 0 || len(model.TopProducts) != 0 || len(model.TopCustomers) != 0 {
		t.Error("zero-row view should yield empty chart tables")
	}
	if len(model.Filters) != 6 || len(model.Filters[0].Options) < 2 {
		t.Error("selector options must survive a zero-row view")
	}
	if model.KPIs != (models.KPISet{}) {
		t.Errorf("zero-row view should zero the KPIs, got %+v", model.KPIs)
	}
}

func BenchmarkBuildDisplayModel(b *testing.B) {
	records := make([]models.Record, 0, 10000)
	regions := []string{"East", "West", "Central", "South"}
	for i := 0; i < 10000; i++ {
		records = append(records, models.Record{
			OrderID:      "O" + string(rune('A'+i%500)),
			OrderDate:    mkDate(2020+i%4, time.Month(1+i%12), 1+i%28),
			Region:       regions[i%len(regions)],
			State:        "State" + string(rune('A'+i%40)),
			Category:     "Cat" + string(rune('A'+i%3)),
			SubCategory:  "Sub" + string(rune('A'+i%17)),
			Segment:      "Segment" + string(rune('A'+i%3)),
			CustomerName: "Customer" + string(rune('A'+i%200)),
			ProductName:  "Product" + string(rune('A'+i%300)),
			Sales:        float64(i%97) * 1.5,
			Profit:       float64(i%41) - 20,
			Quantity:     1 + i%5,
		})
	}
	sel := models.DefaultSelection().WithField("region", "East")

	b.ResetTimer()
	for b.Loop() {
		_ = BuildDisplayModel(records, sel)
	}
}
