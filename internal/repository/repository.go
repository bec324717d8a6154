// Package repository declares the record-store boundary consumed by the
// services. Two collections exist: laborers and laborHours.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/laborbook/internal/domain/models"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("record not found")

// LaborerRepository is the store boundary for the laborers collection.
type LaborerRepository interface {
	// Insert stores a new laborer and returns the store-assigned id.
	Insert(ctx context.Context, laborer models.Laborer) (string, error)
	GetByID(ctx context.Context, id string) (models.Laborer, error)
	// Update rewrites every field of the laborer except its id.
	Update(ctx context.Context, laborer models.Laborer) error
	// Delete removes a laborer document. Deleting a missing id is a no-op,
	// so a retried cascade stays safe.
	Delete(ctx context.Context, id string) error
	// ListByCategory returns the laborers of a category ordered ascending
	// by card number.
	ListByCategory(ctx context.Context, category models.Category) ([]models.Laborer, error)
	// FindByCard returns every laborer claiming the (cardNo, category) pair.
	FindByCard(ctx context.Context, cardNo string, category models.Category) ([]models.Laborer, error)
}

// HoursRepository is the store boundary for the laborHours collection.
type HoursRepository interface {
	// Upsert writes hours for (laborerID, date) as a single conditional
	// write: the record is created when absent and updated in place when
	// present. At most one record may ever exist per pair.
	Upsert(ctx context.Context, laborerID, date string, hours float64) error
	ListByDate(ctx context.Context, date string) ([]models.HoursRecord, error)
	// ListByDateRange returns records whose date falls inside [from, to],
	// bounds inclusive. Dates compare lexicographically.
	ListByDateRange(ctx context.Context, from, to string) ([]models.HoursRecord, error)
	ListByLaborer(ctx context.Context, laborerID string) ([]models.HoursRecord, error)
	// Delete removes one hours record. Missing ids are a no-op.
	Delete(ctx context.Context, id string) error
}
