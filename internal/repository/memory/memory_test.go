package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository"
	"github.com/mamadbah2/laborbook/internal/repository/memory"
)

func TestLaborerListOrderedByCardNo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := store.Laborers()

	for _, cardNo := range []string{"B2", "A10", "A1"} {
		_, err := repo.Insert(ctx, models.Laborer{
			Name:     "worker " + cardNo,
			CardNo:   cardNo,
			Category: models.CategoryMilk,
		})
		require.NoError(t, err)
	}

	_, err := repo.Insert(ctx, models.Laborer{Name: "other", CardNo: "A0", Category: models.CategoryCurd})
	require.NoError(t, err)

	list, err := repo.ListByCategory(ctx, models.CategoryMilk)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "A1", list[0].CardNo)
	assert.Equal(t, "A10", list[1].CardNo)
	assert.Equal(t, "B2", list[2].CardNo)
}

func TestLaborerGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := store.Laborers()

	id, err := repo.Insert(ctx, models.Laborer{Name: "Ravi", CardNo: "A1", Category: models.CategoryMilk})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	got.Name = "Ravi Kumar"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", got.Name)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// deleting again is a no-op
	assert.NoError(t, repo.Delete(ctx, id))
}

func TestHoursUpsertKeepsOneRecordPerPair(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := store.Hours()

	require.NoError(t, repo.Upsert(ctx, "lab-1", "2024-03-01", 8))
	require.NoError(t, repo.Upsert(ctx, "lab-1", "2024-03-01", 6))
	require.NoError(t, repo.Upsert(ctx, "lab-1", "2024-03-02", 4))

	recs, err := repo.ListByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 6.0, recs[0].Hours)
	assert.Equal(t, "lab-1", recs[0].LaborerID)

	all, err := repo.ListByLaborer(ctx, "lab-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHoursDateRangeInclusive(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := store.Hours()

	for _, date := range []string{"2024-02-29", "2024-03-01", "2024-03-31", "2024-04-01"} {
		require.NoError(t, repo.Upsert(ctx, "lab-1", date, 1))
	}

	recs, err := repo.ListByDateRange(ctx, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.Date, "2024-03-01")
		assert.LessOrEqual(t, rec.Date, "2024-03-31")
	}
}
