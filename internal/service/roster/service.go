// Package roster owns the laborer lifecycle: duplicate-guarded create and
// update, and delete with a cascade over the laborer's hours records.
package roster

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository"
)

// Service implements laborer record keeping over the store boundary.
type Service struct {
	laborers repository.LaborerRepository
	hours    repository.HoursRepository
	logger   *zap.Logger
}

// NewService wires a roster service instance.
func NewService(laborers repository.LaborerRepository, hours repository.HoursRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{laborers: laborers, hours: hours, logger: logger}
}

// Input carries the writable fields of a laborer.
type Input struct {
	Name       string
	FatherName string
	CardNo     string
	Category   models.Category
}

func (in Input) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name", models.ErrMissingField)
	case strings.TrimSpace(in.FatherName) == "":
		return fmt.Errorf("%w: fatherName", models.ErrMissingField)
	case strings.TrimSpace(in.CardNo) == "":
		return fmt.Errorf("%w: cardNo", models.ErrMissingField)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidCategory, in.Category)
	}
	return nil
}

// IsDuplicateCard reports whether a laborer other than excludeID already
// claims (cardNo, category). Pass an empty excludeID when creating.
func (s *Service) IsDuplicateCard(ctx context.Context, cardNo string, category models.Category, excludeID string) (bool, error) {
	if strings.TrimSpace(cardNo) == "" {
		return false, fmt.Errorf("%w: cardNo", models.ErrMissingField)
	}
	if !category.Valid() {
		return false, fmt.Errorf("%w: %q", models.ErrInvalidCategory, category)
	}

	matches, err := s.laborers.FindByCard(ctx, cardNo, category)
	if err != nil {
		return false, err
	}

	for _, m := range matches {
		if m.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Create validates, checks for a card collision and inserts a laborer.
func (s *Service) Create(ctx context.Context, in Input) (models.Laborer, error) {
	if err := in.validate(); err != nil {
		return models.Laborer{}, err
	}

	dup, err := s.IsDuplicateCard(ctx, in.CardNo, in.Category, "")
	if err != nil {
		return models.Laborer{}, err
	}
	if dup {
		return models.Laborer{}, models.ErrDuplicateCard
	}

	laborer := models.Laborer{
		Name:       in.Name,
		FatherName: in.FatherName,
		CardNo:     in.CardNo,
		Category:   in.Category,
	}

	id, err := s.laborers.Insert(ctx, laborer)
	if err != nil {
		return models.Laborer{}, err
	}

	s.logger.Info("laborer created",
		zap.String("id", id),
		zap.String("cardNo", in.CardNo),
		zap.String("category", string(in.Category)))

	return s.laborers.GetByID(ctx, id)
}

// Update rewrites every mutable field of a laborer. The duplicate check
// excludes the laborer's own id so a record never collides with itself.
func (s *Service) Update(ctx context.Context, id string, in Input) (models.Laborer, error) {
	if err := in.validate(); err != nil {
		return models.Laborer{}, err
	}

	existing, err := s.laborers.GetByID(ctx, id)
	if err != nil {
		return models.Laborer{}, err
	}

	dup, err := s.IsDuplicateCard(ctx, in.CardNo, in.Category, id)
	if err != nil {
		return models.Laborer{}, err
	}
	if dup {
		return models.Laborer{}, models.ErrDuplicateCard
	}

	existing.Name = in.Name
	existing.FatherName = in.FatherName
	existing.CardNo = in.CardNo
	existing.Category = in.Category

	if err := s.laborers.Update(ctx, existing); err != nil {
		return models.Laborer{}, err
	}

	s.logger.Info("laborer updated", zap.String("id", id))
	return existing, nil
}

// Delete removes a laborer and cascades over its hours records so no
// orphans persist. The per-record deletes are mutually independent and
// issued concurrently; each is idempotent, so a retried cascade is safe.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.laborers.Delete(ctx, id); err != nil {
		return err
	}

	records, err := s.hours.ListByLaborer(ctx, id)
	if err != nil {
		return fmt.Errorf("enumerate hours for cascade: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			return s.hours.Delete(gctx, rec.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("cascade delete hours: %w", err)
	}

	s.logger.Info("laborer deleted", zap.String("id", id), zap.Int("hours_records", len(records)))
	return nil
}
