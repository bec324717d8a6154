// Package hours implements the reconciliation engine: joining the laborer
// roster with the hours recorded for a single date, and the composite-key
// upsert that writes them.
package hours

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository"
)

// Service joins laborers with their recorded hours.
type Service struct {
	laborers repository.LaborerRepository
	hours    repository.HoursRepository
	logger   *zap.Logger
}

// NewService wires a reconciliation service instance.
func NewService(laborers repository.LaborerRepository, hours repository.HoursRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{laborers: laborers, hours: hours, logger: logger}
}

// Reconcile returns every laborer of the category, ordered ascending by
// card number, with the hours recorded for date attached (0 when absent).
func (s *Service) Reconcile(ctx context.Context, category models.Category, date string) ([]models.LaborerWithHours, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCategory, category)
	}
	if _, err := models.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, date)
	}

	laborers, err := s.laborers.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	records, err := s.hours.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	byLaborer := make(map[string]float64, len(records))
	for _, rec := range records {
		byLaborer[rec.LaborerID] = rec.Hours
	}

	out := make([]models.LaborerWithHours, 0, len(laborers))
	for _, laborer := range laborers {
		out = append(out, models.LaborerWithHours{
			Laborer: laborer,
			Hours:   byLaborer[laborer.ID],
		})
	}
	return out, nil
}

// ValidateInput checks a SetHours payload without touching the store. The
// debouncing path calls it up front so a rejected edit fails fast instead
// of surfacing after the coalescing window.
func ValidateInput(laborerID, date string, hrs float64) error {
	if strings.TrimSpace(laborerID) == "" {
		return fmt.Errorf("%w: laborerId", models.ErrMissingField)
	}
	if _, err := models.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %q", models.ErrInvalidDate, date)
	}
	if hrs < 0 {
		return fmt.Errorf("%w: %v", models.ErrNegativeHours, hrs)
	}
	return nil
}

// SetHours writes the hours a laborer worked on a date. The write is an
// upsert on the (laborerID, date) composite key, so calling it twice for
// the same pair leaves exactly one record holding the latest value.
func (s *Service) SetHours(ctx context.Context, laborerID, date string, hrs float64) error {
	if err := ValidateInput(laborerID, date, hrs); err != nil {
		return err
	}

	if err := s.hours.Upsert(ctx, laborerID, date, hrs); err != nil {
		return err
	}

	s.logger.Debug("hours recorded",
		zap.String("laborerId", laborerID),
		zap.String("date", date),
		zap.Float64("hours", hrs))
	return nil
}

// Filter keeps the rows whose name, father name or card number contains
// term, case-insensitively. An empty term keeps everything. Ordering is
// preserved, so the cardNo sort from Reconcile carries through.
func Filter(rows []models.LaborerWithHours, term string) []models.LaborerWithHours {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}

	out := make([]models.LaborerWithHours, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Name), term) ||
			strings.Contains(strings.ToLower(row.FatherName), term) ||
			strings.Contains(strings.ToLower(row.CardNo), term) {
			out = append(out, row)
		}
	}
	return out
}
