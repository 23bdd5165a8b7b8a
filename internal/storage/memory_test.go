package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(savedName string) models.UploadRecord {
	return models.UploadRecord{
		ID:           "id-" + savedName,
		Keyword:      "red shoes",
		OriginalName: "photo.png",
		SavedName:    savedName,
		FilePath:     "/uploads/" + savedName,
		Outcome:      "normalized",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryJournal_SaveAndGet(t *testing.T) {
	journal := NewMemoryJournal(10)
	ctx := context.Background()

	err := journal.SaveBatch(ctx, []models.UploadRecord{record("a-1.png"), record("a-2.png")})
	require.NoError(t, err)

	got, err := journal.GetBySavedName(ctx, "a-2.png")
	assert.NoError(t, err)
	assert.Equal(t, record("a-2.png"), got)

	_, err = journal.GetBySavedName(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryJournal_Conflict(t *testing.T) {
	journal := NewMemoryJournal(10)
	ctx := context.Background()

	require.NoError(t, journal.SaveBatch(ctx, []models.UploadRecord{record("a-1.png")}))

	err := journal.SaveBatch(ctx, []models.UploadRecord{record("a-2.png"), record("a-1.png")})
	assert.ErrorIs(t, err, ErrRecordConflict)

	// Пакет с конфликтом не сохраняется частично
	_, err = journal.GetBySavedName(ctx, "a-2.png")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryJournal_ListNewestFirst(t *testing.T) {
	journal := NewMemoryJournal(10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, journal.SaveBatch(ctx, []models.UploadRecord{record(fmt.Sprintf("f-%d.png", i))}))
	}

	list, err := journal.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "f-4.png", list[0].SavedName)
	assert.Equal(t, "f-3.png", list[1].SavedName)
	assert.Equal(t, "f-2.png", list[2].SavedName)

	all, err := journal.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMemoryJournal_EvictsOldest(t *testing.T) {
	journal := NewMemoryJournal(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, journal.SaveBatch(ctx, []models.UploadRecord{record(fmt.Sprintf("f-%d.png", i))}))
	}

	all, err := journal.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "f-4.png", all[0].SavedName)
	assert.Equal(t, "f-2.png", all[2].SavedName)

	_, err = journal.GetBySavedName(ctx, "f-0.png")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	got, err := journal.GetBySavedName(ctx, "f-3.png")
	require.NoError(t, err)
	assert.Equal(t, "f-3.png", got.SavedName)
}

func TestMemoryJournal_CheckConnection(t *testing.T) {
	journal := NewMemoryJournal(0)
	assert.NoError(t, journal.CheckConnection(context.Background()))
	assert.NoError(t, journal.Close())
}
