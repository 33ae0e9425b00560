package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

func newTestDAO(t *testing.T) *ClassificationDAO {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "classifications.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewClassificationDAO(db)
}

func sampleRecord(id string) ClassificationRecord {
	return ClassificationRecord{
		ID:    id,
		Input: "ERROR [db-pool] connection refused",
		Symptom: CategoryResult{
			Text:           "database connections refused",
			Confidence:     0.9,
			ModelConsensus: []string{"openai", "googleai", "anthropic"},
		},
		Cause: CategoryResult{
			Text:       "connection pool exhausted",
			Confidence: 0.85,
		},
		Action: CategoryResult{
			Text:       "increase pool size and restart",
			Confidence: 0.8,
		},
		Metadata:  map[string]string{"severity": "ERROR"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestClassificationDAO_StoreAndGet(t *testing.T) {
	dao := newTestDAO(t)
	ctx := context.Background()

	record := sampleRecord("c1")
	require.NoError(t, dao.Store(ctx, record))

	got, err := dao.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, record.Input, got.Input)
	assert.Equal(t, record.Symptom, got.Symptom)
	assert.Equal(t, record.Cause.Text, got.Cause.Text)
	assert.Equal(t, 0.8, got.Action.Confidence)
	assert.Equal(t, "ERROR", got.Metadata["severity"])
}

func TestClassificationDAO_GetMissing(t *testing.T) {
	dao := newTestDAO(t)

	_, err := dao.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.CLASSIFICATION_NOT_FOUND, "")))
}

func TestClassificationDAO_StoreOverwrites(t *testing.T) {
	dao := newTestDAO(t)
	ctx := context.Background()

	record := sampleRecord("c1")
	require.NoError(t, dao.Store(ctx, record))

	record.Symptom.Text = "revised symptom"
	require.NoError(t, dao.Store(ctx, record))

	got, err := dao.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "revised symptom", got.Symptom.Text)

	count, err := dao.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClassificationDAO_ListNewestFirst(t *testing.T) {
	dao := newTestDAO(t)
	ctx := context.Background()

	older := sampleRecord("old")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := sampleRecord("new")

	require.NoError(t, dao.Store(ctx, older))
	require.NoError(t, dao.Store(ctx, newer))

	records, err := dao.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, "old", records[1].ID)

	limited, err := dao.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].ID)
}

func TestClassificationDAO_RejectsEmptyID(t *testing.T) {
	dao := newTestDAO(t)
	assert.Error(t, dao.Store(context.Background(), ClassificationRecord{}))
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestDatabase_Health(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.Health(context.Background()).IsHealthy())
}
