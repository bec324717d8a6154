package hours_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository/memory"
	"github.com/mamadbah2/laborbook/internal/service/hours"
)

func newTestService(t *testing.T) (*hours.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return hours.NewService(store.Laborers(), store.Hours(), nil), store
}

func addLaborer(t *testing.T, store *memory.Store, name, cardNo string, category models.Category) string {
	t.Helper()
	id, err := store.Laborers().Insert(context.Background(), models.Laborer{
		Name:       name,
		FatherName: "father of " + name,
		CardNo:     cardNo,
		Category:   category,
	})
	require.NoError(t, err)
	return id
}

func TestReconcileDefaultsMissingHoursToZero(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	raviID := addLaborer(t, store, "Ravi", "A1", models.CategoryMilk)
	addLaborer(t, store, "Mohan", "A2", models.CategoryMilk)
	addLaborer(t, store, "Suresh", "A1", models.CategoryCurd)

	require.NoError(t, svc.SetHours(ctx, raviID, "2024-03-01", 8))

	rows, err := svc.Reconcile(ctx, models.CategoryMilk, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, rows, 2, "only Milk laborers belong in the Milk roster")

	assert.Equal(t, "A1", rows[0].CardNo)
	assert.Equal(t, 8.0, rows[0].Hours)
	assert.Equal(t, "A2", rows[1].CardNo)
	assert.Equal(t, 0.0, rows[1].Hours, "laborer without a record defaults to zero")
}

func TestReconcileIgnoresOtherDates(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	raviID := addLaborer(t, store, "Ravi", "A1", models.CategoryMilk)
	require.NoError(t, svc.SetHours(ctx, raviID, "2024-03-01", 8))

	rows, err := svc.Reconcile(ctx, models.CategoryMilk, "2024-03-02")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Hours)
}

func TestSetHoursTwiceUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	raviID := addLaborer(t, store, "Ravi", "A1", models.CategoryMilk)

	require.NoError(t, svc.SetHours(ctx, raviID, "2024-03-01", 8))
	require.NoError(t, svc.SetHours(ctx, raviID, "2024-03-01", 6))

	rows, err := svc.Reconcile(ctx, models.CategoryMilk, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 6.0, rows[0].Hours)

	recs, err := store.Hours().ListByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, recs, 1, "the upsert must never create a second record for the pair")
}

func TestSetHoursRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	assert.ErrorIs(t, svc.SetHours(ctx, "lab-1", "2024-03-01", -1), models.ErrNegativeHours)
	assert.ErrorIs(t, svc.SetHours(ctx, "lab-1", "01/03/2024", 4), models.ErrInvalidDate)
	assert.ErrorIs(t, svc.SetHours(ctx, "lab-1", "2024-3-1", 4), models.ErrInvalidDate)
	assert.ErrorIs(t, svc.SetHours(ctx, "", "2024-03-01", 4), models.ErrMissingField)

	// fractional hours are valid
	assert.NoError(t, svc.SetHours(ctx, "lab-1", "2024-03-01", 4.5))
}

func TestReconcileValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Reconcile(ctx, "Butter", "2024-03-01")
	assert.ErrorIs(t, err, models.ErrInvalidCategory)

	_, err = svc.Reconcile(ctx, models.CategoryMilk, "March 1st")
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestFilterMatchesAnyIdentifyingField(t *testing.T) {
	rows := []models.LaborerWithHours{
		{Laborer: models.Laborer{Name: "Ravi", FatherName: "Shyam", CardNo: "A1"}},
		{Laborer: models.Laborer{Name: "Mohan", FatherName: "Gopal", CardNo: "A2"}},
		{Laborer: models.Laborer{Name: "Suresh", FatherName: "Ravinder", CardNo: "B7"}},
	}

	assert.Len(t, hours.Filter(rows, "ravi"), 2, "matches name and father name")
	assert.Len(t, hours.Filter(rows, "a2"), 1)
	assert.Len(t, hours.Filter(rows, ""), 3)
	assert.Empty(t, hours.Filter(rows, "zz"))

	// ordering from Reconcile is preserved
	filtered := hours.Filter(rows, "ravi")
	assert.Equal(t, "Ravi", filtered[0].Name)
	assert.Equal(t, "Suresh", filtered[1].Name)
}

func TestDebouncerCoalescesToLastValue(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	raviID := addLaborer(t, store, "Ravi", "A1", models.CategoryMilk)

	d := hours.NewDebouncer(svc, 20*time.Millisecond, nil)
	d.Set(raviID, "2024-03-01", 8)
	d.Set(raviID, "2024-03-01", 6)

	assert.Eventually(t, func() bool {
		recs, err := store.Hours().ListByDate(ctx, "2024-03-01")
		return err == nil && len(recs) == 1 && recs[0].Hours == 6
	}, time.Second, 10*time.Millisecond)
}

func TestDebouncerFlushWritesPending(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	raviID := addLaborer(t, store, "Ravi", "A1", models.CategoryMilk)

	d := hours.NewDebouncer(svc, time.Hour, nil)
	d.Set(raviID, "2024-03-01", 7.5)
	d.Flush()

	recs, err := store.Hours().ListByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 7.5, recs[0].Hours)
}
