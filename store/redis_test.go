package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notionsync/models"
	"notionsync/notion"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := InitRedis(context.Background(), models.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func testBatch() *models.SyncBatch {
	psURL := "https://docs/ps"
	page := &notion.Page{Object: "page", ID: "p1", Properties: notion.Properties{
		models.PropSchool: notion.TitleValue(notion.PlainTextRun("MIT")),
		models.PropPS:     notion.URLValue(&psURL),
		models.PropStatus: notion.SelectValue(&notion.SelectOption{Name: "Draft"}),
	}}
	return &models.SyncBatch{
		ID:         "batch-1",
		StartedAt:  time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 10, 1, 12, 0, 2, 0, time.UTC),
		Succeeded:  1,
		Failed:     1,
		Results: []models.SyncResult{
			{Success: true, School: "MIT", Action: models.ActionCreated, Result: page},
			{Success: false, School: "UCLA", Action: models.ActionUpdated, Error: "boom"},
		},
	}
}

func TestRedisStore_Record(t *testing.T) {
	t.Run("Should store the batch and the last result per school", func(t *testing.T) {
		s, mr := newRedisStore(t)
		ctx := context.Background()

		require.NoError(t, s.Record(ctx, testBatch()))

		batch, err := s.Batch(ctx, "batch-1")
		require.NoError(t, err)
		assert.Equal(t, testBatch(), batch)

		last, err := s.LastResult(ctx, "UCLA")
		require.NoError(t, err)
		assert.Equal(t, "boom", last.Error)

		created, err := s.LastResult(ctx, "MIT")
		require.NoError(t, err)
		school := created.Result.Properties[models.PropSchool]
		assert.Equal(t, notion.TypeTitle, school.Type)
		name, ok := school.FirstTitleText()
		assert.True(t, ok)
		assert.Equal(t, "MIT", name)
		assert.Equal(t, notion.TypeURL, created.Result.Properties[models.PropPS].Type)

		assert.Equal(t, time.Hour, mr.TTL(batchKey("batch-1")))
		assert.Equal(t, time.Hour, mr.TTL(schoolKey("MIT")))
	})

	t.Run("Should overwrite the last result of a school", func(t *testing.T) {
		s, _ := newRedisStore(t)
		ctx := context.Background()
		require.NoError(t, s.Record(ctx, testBatch()))

		second := &models.SyncBatch{ID: "batch-2", Results: []models.SyncResult{
			{Success: true, School: "UCLA", Action: models.ActionUpdated, Result: &notion.Page{ID: "p2"}},
		}}
		require.NoError(t, s.Record(ctx, second))

		last, err := s.LastResult(ctx, "UCLA")
		require.NoError(t, err)
		assert.True(t, last.Success)
		assert.Equal(t, "p2", last.Result.ID)
	})

	t.Run("Should return ErrNotFound for unknown keys", func(t *testing.T) {
		s, _ := newRedisStore(t)

		_, err := s.Batch(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.LastResult(context.Background(), "Nowhere")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Should surface connection errors", func(t *testing.T) {
		s, mr := newRedisStore(t)
		mr.Close()

		err := s.Record(context.Background(), testBatch())
		assert.Error(t, err)
	})
}

func TestInitRedis(t *testing.T) {
	_, err := InitRedis(context.Background(), models.RedisConfig{Addr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "connect redis 127.0.0.1:1")
}
