package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createTempFile(t *testing.T) string {
	tempDir := t.TempDir()
	return filepath.Join(tempDir, "test_uploads.jsonl")
}

func TestFileJournal_SaveAndGet(t *testing.T) {
	logger := zap.NewNop()
	tempFile := createTempFile(t)

	journal, err := NewFileJournal(tempFile, logger)
	require.NoError(t, err)
	defer journal.Close()

	ctx := context.Background()

	err = journal.SaveBatch(ctx, []models.UploadRecord{record("a-1.png")})
	assert.NoError(t, err)

	got, err := journal.GetBySavedName(ctx, "a-1.png")
	assert.NoError(t, err)
	assert.Equal(t, record("a-1.png"), got)

	_, err = journal.GetBySavedName(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestFileJournal_Persistence(t *testing.T) {
	logger := zap.NewNop()
	tempFile := createTempFile(t)
	ctx := context.Background()

	journal, err := NewFileJournal(tempFile, logger)
	require.NoError(t, err)
	require.NoError(t, journal.SaveBatch(ctx, []models.UploadRecord{record("a-1.png"), record("a-2.png")}))
	require.NoError(t, journal.Close())

	reopened, err := NewFileJournal(tempFile, logger)
	require.NoError(t, err)
	defer reopened.Close()

	list, err := reopened.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-2.png", list[0].SavedName)
	assert.Equal(t, "a-1.png", list[1].SavedName)

	err = reopened.SaveBatch(ctx, []models.UploadRecord{record("a-1.png")})
	assert.ErrorIs(t, err, ErrRecordConflict)
}

func TestFileJournal_JSONLinesFormat(t *testing.T) {
	tempFile := createTempFile(t)

	journal, err := NewFileJournal(tempFile, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, journal.SaveBatch(context.Background(), []models.UploadRecord{record("a-1.png"), record("a-2.png")}))
	require.NoError(t, journal.Sync())
	require.NoError(t, journal.Close())

	data, err := os.ReadFile(tempFile)
	require.NoError(t, err)

	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	assert.Equal(t, 2, lines)
	assert.Contains(t, string(data), `"saved_name":"a-1.png"`)
}

func TestFileJournal_CorruptedTailIsTolerated(t *testing.T) {
	tempFile := createTempFile(t)
	content := `{"id":"1","saved_name":"ok.png"}` + "\n" + `{broken`
	require.NoError(t, os.WriteFile(tempFile, []byte(content), 0o644))

	journal, err := NewFileJournal(tempFile, zap.NewNop())
	require.NoError(t, err)
	defer journal.Close()

	got, err := journal.GetBySavedName(context.Background(), "ok.png")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
}

func TestFileJournal_ClosedJournal(t *testing.T) {
	journal, err := NewFileJournal(createTempFile(t), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, journal.CheckConnection(ctx))
	require.NoError(t, journal.Close())

	assert.Error(t, journal.CheckConnection(ctx))
	assert.Error(t, journal.SaveBatch(ctx, []models.UploadRecord{record("x.png")}))
	// Повторное закрытие безопасно
	assert.NoError(t, journal.Close())
}

func TestNewJournal_Selection(t *testing.T) {
	logger := zap.NewNop()

	journal, err := NewJournal(Options{}, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryJournal{}, journal)

	journal, err = NewJournal(Options{FilePath: createTempFile(t)}, logger)
	require.NoError(t, err)
	assert.IsType(t, &FileJournal{}, journal)
	require.NoError(t, journal.Close())

	_, err = NewJournal(Options{FilePath: filepath.Join(t.TempDir(), "missing", "dir", "j.jsonl")}, logger)
	assert.Error(t, err)
}
