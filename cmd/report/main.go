// Command report runs the dashboard pipeline once, offline: load the
// workbook, apply the filters given as flags, print the KPI and aggregate
// tables, and write the five charts to an HTML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/report"
	"superstore-dashboard/internal/services"
)

const loadTimeout = 30 * time.Second

func main() {
	var (
		file        = flag.String("file", "Sample - Superstore.xlsx", "workbook to analyze")
		sheet       = flag.String("sheet", "", "sheet name (default: first sheet)")
		out         = flag.String("out", "report.html", "output HTML file")
		region      = flag.String("region", models.AllOption, "region filter")
		state       = flag.String("state", models.AllOption, "state filter")
		category    = flag.String("category", models.AllOption, "category filter")
		subcategory = flag.String("subcategory", models.AllOption, "sub-category filter")
		segment     = flag.String("segment", models.AllOption, "customer segment filter")
		customer    = flag.String("customer", models.AllOption, "customer filter")
	)
	flag.Parse()

	if err := run(*file, *sheet, *out, models.FilterSelection{
		Region:      *region,
		State:       *state,
		Category:    *category,
		SubCategory: *subcategory,
		Segment:     *segment,
		Customer:    *customer,
	}); err != nil {
		slog.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run(file, sheet, out string, sel models.FilterSelection) error {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	store := services.NewStore()
	if err := store.Load(ctx, file, sheet); err != nil {
		return err
	}

	model := services.BuildDisplayModel(store.Records(), sel)

	fmt.Println(report.KPITable(model))
	for _, t := range report.AggregateTables(model) {
		fmt.Println()
		fmt.Println(t)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := report.WriteHTML(f, model); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}

	fmt.Printf("\nwrote %s (%d rows matched)\n", out, model.RowCount)
	return nil
}
