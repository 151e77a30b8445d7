package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialpilot/socialpilot/internal/domain/model"
)

func TestContentRepo_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, model.ContentItem{
		Text:      "hello world",
		MediaURL:  "/media/pic.png",
		MediaType: model.MediaTypeImage,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	items, err := repo.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "hello world", items[0].Text)
	assert.Equal(t, model.MediaTypeImage, items[0].MediaType)
	assert.Nil(t, items[0].LastPublishedAt)
}

func TestContentRepo_CreateKeepsProvidedID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepo(db)

	id, err := repo.Create(context.Background(), model.ContentItem{ID: "fixed-id", Text: "t"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestContentRepo_ListOrdersNeverPublishedFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepo(db)
	ctx := context.Background()

	old := time.Now().Add(-40 * 24 * time.Hour)
	recent := time.Now().Add(-2 * 24 * time.Hour)

	_, err := repo.Create(ctx, model.ContentItem{ID: "recent", Text: "r", LastPublishedAt: &recent})
	require.NoError(t, err)
	_, err = repo.Create(ctx, model.ContentItem{ID: "never", Text: "n"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, model.ContentItem{ID: "old", Text: "o", LastPublishedAt: &old})
	require.NoError(t, err)

	items, err := repo.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "never", items[0].ID)
	assert.Equal(t, "old", items[1].ID)
	assert.Equal(t, "recent", items[2].ID)
}

func TestContentRepo_UpdateLastPublished(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, model.ContentItem{Text: "t"})
	require.NoError(t, err)

	publishedAt := time.Now().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastPublished(ctx, id, publishedAt))

	item, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.NotNil(t, item.LastPublishedAt)
	assert.True(t, item.LastPublishedAt.Equal(publishedAt))
}

func TestContentRepo_UpdateLastPublishedMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepo(db)

	err := repo.UpdateLastPublished(context.Background(), "no-such-id", time.Now())
	assert.Error(t, err)
}

func TestContentRepo_UnparsableTimestampFailsOpen(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepo(db)
	ctx := context.Background()

	_, err := db.Writer.ExecContext(ctx,
		`INSERT INTO content_items (id, text, last_published_at) VALUES (?, ?, ?)`,
		"bad-ts", "t", "not-a-timestamp")
	require.NoError(t, err)

	items, err := repo.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	// The broken timestamp reads back as never published, keeping it eligible.
	assert.Nil(t, items[0].LastPublishedAt)
}

func TestContentRepo_GetByIDMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepo(db)

	item, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, item)
}
