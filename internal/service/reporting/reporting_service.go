// Package reporting builds the monthly per-category report and renders it
// as the CSV the book keeper hands out.
package reporting

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository"
	"github.com/mamadbah2/laborbook/internal/repository/sheets"
)

// csvHeader is the fixed export header, one row per (laborer, recorded date).
var csvHeader = []string{"Name", "Father Name", "Card No.", "Date", "Hours"}

// Service assembles monthly reports from the two collections.
type Service struct {
	laborers repository.LaborerRepository
	hours    repository.HoursRepository
	sheets   sheets.Repository // nil when no spreadsheet mirror is configured
	logger   *zap.Logger
}

// NewService wires a reporting service instance. sheetsRepo may be nil.
func NewService(laborers repository.LaborerRepository, hours repository.HoursRepository, sheetsRepo sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{laborers: laborers, hours: hours, sheets: sheetsRepo, logger: logger}
}

// MonthBounds returns the inclusive [first, last] day of a month in wire
// format. Both bounds are zero-padded so the range compares lexicographically.
func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(models.DateLayout), last.Format(models.DateLayout)
}

// FileName is the export file name pattern, {category}-{yyyy-MM}.csv.
func FileName(category models.Category, year int, month time.Month) string {
	return fmt.Sprintf("%s-%04d-%02d.csv", category, year, int(month))
}

// BuildMonthlyReport returns one row per laborer of the category, each
// carrying the (date, hours) pairs recorded inside the month sorted
// ascending by date. Laborers with no records that month keep an empty
// list rather than being dropped.
func (s *Service) BuildMonthlyReport(ctx context.Context, category models.Category, year int, month time.Month) ([]models.MonthlyReportRow, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCategory, category)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", models.ErrInvalidDate, month)
	}

	laborers, err := s.laborers.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	from, to := MonthBounds(year, month)
	records, err := s.hours.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byLaborer := make(map[string][]models.DateHours)
	for _, rec := range records {
		byLaborer[rec.LaborerID] = append(byLaborer[rec.LaborerID], models.DateHours{
			Date:  rec.Date,
			Hours: rec.Hours,
		})
	}

	rows := make([]models.MonthlyReportRow, 0, len(laborers))
	for _, laborer := range laborers {
		entries := byLaborer[laborer.ID]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

		rows = append(rows, models.MonthlyReportRow{
			Name:       laborer.Name,
			FatherName: laborer.FatherName,
			CardNo:     laborer.CardNo,
			Hours:      entries,
		})
	}
	return rows, nil
}

// WriteCSV renders report rows as the flat export. Laborers with no
// recorded hours contribute zero rows here; they still appear in the rows
// slice itself.
func (s *Service) WriteCSV(w io.Writer, rows []models.MonthlyReportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		for _, dh := range row.Hours {
			rec := []string{
				orUnknown(row.Name),
				orUnknown(row.FatherName),
				orUnknown(row.CardNo),
				orUnknown(dh.Date),
				formatHours(dh.Hours),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportMonth builds the month's report, writes the CSV into dir and
// mirrors the rows to the spreadsheet when one is configured. It returns
// the path of the written file.
func (s *Service) ExportMonth(ctx context.Context, category models.Category, year int, month time.Month, dir string) (string, error) {
	rows, err := s.BuildMonthlyReport(ctx, category, year, month)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(category, year, month))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := s.WriteCSV(f, rows); err != nil {
		return "", fmt.Errorf("write export csv: %w", err)
	}

	if s.sheets != nil {
		s.mirrorToSheet(ctx, category, rows)
	}

	s.logger.Info("monthly export written",
		zap.String("path", path),
		zap.String("category", string(category)),
		zap.Int("laborers", len(rows)))
	return path, nil
}

// mirrorToSheet appends the flattened rows to the category's sheet. Mirror
// failures are logged, not fatal: the CSV on disk is the export of record.
func (s *Service) mirrorToSheet(ctx context.Context, category models.Category, rows []models.MonthlyReportRow) {
	sheetRange := fmt.Sprintf("'%s'!A:E", category)

	for _, row := range rows {
		for _, dh := range row.Hours {
			values := []interface{}{
				orUnknown(row.Name),
				orUnknown(row.FatherName),
				orUnknown(row.CardNo),
				orUnknown(dh.Date),
				dh.Hours,
			}
			if err := s.sheets.AppendRow(ctx, sheetRange, values); err != nil {
				s.logger.Warn("sheet mirror append failed",
					zap.String("range", sheetRange),
					zap.Error(err))
				return
			}
		}
	}
}

func orUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}

func formatHours(hrs float64) string {
	if hrs == 0 {
		return "0"
	}
	return strconv.FormatFloat(hrs, 'f', -1, 64)
}
