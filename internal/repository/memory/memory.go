// Package memory provides an in-memory record store for local development
// and tests. It honors the same contracts as the MongoDB adapter, including
// the single-record-per-(laborerId, date) upsert.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository"
)

// Store keeps both collections behind one lock. Operations are cheap and
// collections small, so a single RWMutex is enough.
type Store struct {
	mu       sync.RWMutex
	laborers map[string]models.Laborer
	hours    map[string]models.HoursRecord
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		laborers: make(map[string]models.Laborer),
		hours:    make(map[string]models.HoursRecord),
	}
}

// Laborers returns the laborers collection repository.
func (s *Store) Laborers() repository.LaborerRepository { return &laborerRepo{store: s} }

// Hours returns the laborHours collection repository.
func (s *Store) Hours() repository.HoursRepository { return &hoursRepo{store: s} }

type laborerRepo struct {
	store *Store
}

func (r *laborerRepo) Insert(_ context.Context, laborer models.Laborer) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	laborer.ID = uuid.NewString()
	laborer.CreatedAt = time.Now().UTC()
	r.store.laborers[laborer.ID] = laborer
	return laborer.ID, nil
}

func (r *laborerRepo) GetByID(_ context.Context, id string) (models.Laborer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	laborer, ok := r.store.laborers[id]
	if !ok {
		return models.Laborer{}, repository.ErrNotFound
	}
	return laborer, nil
}

func (r *laborerRepo) Update(_ context.Context, laborer models.Laborer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.laborers[laborer.ID]
	if !ok {
		return repository.ErrNotFound
	}

	laborer.CreatedAt = existing.CreatedAt
	r.store.laborers[laborer.ID] = laborer
	return nil
}

func (r *laborerRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.laborers, id)
	return nil
}

func (r *laborerRepo) ListByCategory(_ context.Context, category models.Category) ([]models.Laborer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []models.Laborer
	for _, laborer := range r.store.laborers {
		if laborer.Category == category {
			out = append(out, laborer)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardNo < out[j].CardNo })
	return out, nil
}

func (r *laborerRepo) FindByCard(_ context.Context, cardNo string, category models.Category) ([]models.Laborer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []models.Laborer
	for _, laborer := range r.store.laborers {
		if laborer.CardNo == cardNo && laborer.Category == category {
			out = append(out, laborer)
		}
	}
	return out, nil
}

type hoursRepo struct {
	store *Store
}

func (r *hoursRepo) Upsert(_ context.Context, laborerID, date string, hours float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	for id, rec := range r.store.hours {
		if rec.LaborerID == laborerID && rec.Date == date {
			rec.Hours = hours
			rec.UpdatedAt = now
			r.store.hours[id] = rec
			return nil
		}
	}

	id := uuid.NewString()
	r.store.hours[id] = models.HoursRecord{
		ID:        id,
		LaborerID: laborerID,
		Date:      date,
		Hours:     hours,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (r *hoursRepo) ListByDate(_ context.Context, date string) ([]models.HoursRecord, error) {
	return r.list(func(rec models.HoursRecord) bool { return rec.Date == date })
}

func (r *hoursRepo) ListByDateRange(_ context.Context, from, to string) ([]models.HoursRecord, error) {
	return r.list(func(rec models.HoursRecord) bool { return rec.Date >= from && rec.Date <= to })
}

func (r *hoursRepo) ListByLaborer(_ context.Context, laborerID string) ([]models.HoursRecord, error) {
	return r.list(func(rec models.HoursRecord) bool { return rec.LaborerID == laborerID })
}

func (r *hoursRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.hours, id)
	return nil
}

func (r *hoursRepo) list(match func(models.HoursRecord) bool) ([]models.HoursRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []models.HoursRecord
	for _, rec := range r.store.hours {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
