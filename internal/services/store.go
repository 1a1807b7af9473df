package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
)

const (
	parseBatchSize = 2000
	maxParseWork   = 8
)

// requiredColumns are the exact header keys the workbook must carry.
var requiredColumns = []string{
	"Order ID", "Order Date", "Region", "State", "Category",
	"Sub-Category", "Segment", "Customer Name", "Product Name",
	"Sales", "Profit", "Quantity",
}

// Store owns the unfiltered dataset. It is written once by the first
// successful Load and read-only afterwards; every filter pass derives new
// slices and never mutates the records it holds.
type Store struct {
	mu       sync.RWMutex
	records  []models.Record
	loaded   bool
	loadedAt time.Time
	source   string
	logger   *slog.Logger
}

func NewStore() *Store {
	return &Store{logger: slog.Default()}
}

// SetData installs records directly, bypassing the workbook. Test seam,
// mirrors Load's single-write contract.
func (s *Store) SetData(records []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.loaded = true
	s.loadedAt = time.Now()
	s.source = "inline"
}

// Load reads the workbook at path into memory. The result is memoized for
// the process lifetime: after the first successful call, subsequent calls
// return immediately without touching the file. A failed parse is a
// DATASET_LOAD_ERROR and leaves the store unloaded.
func (s *Store) Load(ctx context.Context, path, sheet string) error {
	s.mu.RLock()
	done := s.loaded
	s.mu.RUnlock()
	if done {
		return nil
	}

	start := time.Now()
	s.logger.Info("loading workbook", "path", path, "sheet", sheet)

	rows, err := readSheet(path, sheet)
	if err != nil {
		return err
	}

	records, err := parseRows(ctx, rows)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	s.records = records
	s.loaded = true
	s.loadedAt = time.Now()
	s.source = path

	s.logger.Info("workbook loaded",
		"rows", len(records),
		"duration", time.Since(start),
	)
	return nil
}

func readSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.DataLoadWrap(err, fmt.Sprintf("open workbook %q", path))
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.DataLoad("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.DataLoadWrap(err, fmt.Sprintf("read sheet %q", sheet))
	}
	if len(rows) < 2 {
		return nil, errors.DataLoad("sheet has no data rows")
	}
	return rows, nil
}

// parseRows converts sheet rows to records. Header resolution is by exact
// column name; data rows are parsed in bounded parallel batches with row
// order preserved.
func parseRows(ctx context.Context, rows [][]string) ([]models.Record, error) {
	cols, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	data := rows[1:]
	records := make([]models.Record, len(data))

	var g errgroup.Group
	g.SetLimit(maxParseWork)

	for start := 0; start < len(data); start += parseBatchSize {
		end := min(start+parseBatchSize, len(data))
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			for i := start; i < end; i++ {
				rec, err := parseRecord(data[i], cols)
				if err != nil {
					return errors.DataLoadWrap(err, fmt.Sprintf("row %d", i+2))
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, want := range requiredColumns {
		if _, ok := idx[want]; !ok {
			return nil, errors.DataLoad(fmt.Sprintf("missing column %q", want))
		}
	}
	return idx, nil
}

func parseRecord(row []string, cols map[string]int) (models.Record, error) {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := parseDate(cell("Order Date"))
	if err != nil {
		return models.Record{}, fmt.Errorf("order date: %w", err)
	}

	sales, err := parseFloat(cell("Sales"))
	if err != nil {
		return models.Record{}, fmt.Errorf("sales: %w", err)
	}

	profit, err := parseFloat(cell("Profit"))
	if err != nil {
		return models.Record{}, fmt.Errorf("profit: %w", err)
	}

	quantity := 0
	if q := cell("Quantity"); q != "" {
		qf, err := parseFloat(q)
		if err != nil {
			return models.Record{}, fmt.Errorf("quantity: %w", err)
		}
		quantity = int(qf)
	}

	return models.Record{
		OrderID:      cell("Order ID"),
		OrderDate:    date,
		Region:       cell("Region"),
		State:        cell("State"),
		Category:     cell("Category"),
		SubCategory:  cell("Sub-Category"),
		Segment:      cell("Segment"),
		CustomerName: cell("Customer Name"),
		ProductName:  cell("Product Name"),
		Sales:        sales,
		Profit:       profit,
		Quantity:     quantity,
	}, nil
}

// dateLayouts covers the formats the export shows up with: excelize's
// rendered date cells plus plain ISO dates.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// Raw serial number: days since the 1900 epoch.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// Records returns the unfiltered dataset. Callers must not mutate it.
func (s *Store) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Stats reports dataset shape for the admin endpoint.
func (s *Store) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		orders[r.OrderID] = struct{}{}
	}

	return map[string]any{
		"row_count":       len(s.records),
		"distinct_orders": len(orders),
		"source":          s.source,
		"loaded_at":       s.loadedAt,
	}
}
