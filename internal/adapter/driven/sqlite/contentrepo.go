package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

// candidateLimit bounds the candidate set read per scheduling cycle.
const candidateLimit = 100

// Compile-time interface satisfaction check.
var _ driven.ContentStore = (*ContentRepo)(nil)

// ContentRepo is the SQLite implementation of the ContentStore port.
type ContentRepo struct {
	db *DB
}

// NewContentRepo creates a new ContentRepo.
func NewContentRepo(db *DB) *ContentRepo {
	return &ContentRepo{db: db}
}

// ListCandidates returns up to candidateLimit items ordered oldest published
// first, with never-published items leading. Rows with unparsable
// last_published_at values are returned with a nil timestamp so the selector
// treats them as eligible instead of dropping them.
func (r *ContentRepo) ListCandidates(ctx context.Context) ([]model.ContentItem, error) {
	const query = `SELECT id, text, media_url, media_type, last_published_at, created_at, updated_at
FROM content_items
ORDER BY last_published_at IS NOT NULL, last_published_at ASC
LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var items []model.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	if items == nil {
		items = []model.ContentItem{}
	}
	return items, nil
}

// Create persists a new content item and returns its assigned id. An empty
// id is replaced with a fresh UUID.
func (r *ContentRepo) Create(ctx context.Context, item model.ContentItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.MediaType == "" {
		item.MediaType = model.MediaTypeNone
	}

	var lastPublished any
	if item.LastPublishedAt != nil {
		lastPublished = item.LastPublishedAt.UTC().Format(time.RFC3339)
	}

	const query = `INSERT INTO content_items (id, text, media_url, media_type, last_published_at)
VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query,
		item.ID, item.Text, item.MediaURL, string(item.MediaType), lastPublished)
	if err != nil {
		return "", fmt.Errorf("create content item: %w", err)
	}
	return item.ID, nil
}

// UpdateLastPublished records a successful publish time for an item.
func (r *ContentRepo) UpdateLastPublished(ctx context.Context, id string, publishedAt time.Time) error {
	const query = `UPDATE content_items
SET last_published_at = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`
	res, err := r.db.Writer.ExecContext(ctx, query, publishedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update last published %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update last published %q: no such item", id)
	}
	return nil
}

// GetByID retrieves a single content item. Returns (nil, nil) when absent.
func (r *ContentRepo) GetByID(ctx context.Context, id string) (*model.ContentItem, error) {
	const query = `SELECT id, text, media_url, media_type, last_published_at, created_at, updated_at
FROM content_items WHERE id = ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get content item %q: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get content item %q: %w", id, err)
		}
		return nil, nil
	}

	item, err := scanContentItem(rows)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// scanContentItem maps one row to a domain ContentItem, normalizing the
// stored timestamp representation at the repository boundary.
func scanContentItem(rows *sql.Rows) (model.ContentItem, error) {
	var (
		item          model.ContentItem
		mediaType     string
		lastPublished sql.NullString
		createdAt     string
		updatedAt     string
	)
	if err := rows.Scan(&item.ID, &item.Text, &item.MediaURL, &mediaType, &lastPublished, &createdAt, &updatedAt); err != nil {
		return model.ContentItem{}, fmt.Errorf("scan content item: %w", err)
	}

	item.MediaType = model.ParseMediaType(mediaType)

	if lastPublished.Valid && lastPublished.String != "" {
		ts, err := parseTime(lastPublished.String)
		if err != nil {
			// Fail open: an unreadable timestamp keeps the item eligible.
			slog.Warn("unparsable last_published_at, treating as never published",
				"id", item.ID, "value", lastPublished.String)
		} else {
			item.LastPublishedAt = &ts
		}
	}

	if ts, err := parseTime(createdAt); err == nil {
		item.CreatedAt = ts
	}
	if ts, err := parseTime(updatedAt); err == nil {
		item.UpdatedAt = ts
	}

	return item, nil
}

// parseTime parses the timestamp layouts SQLite hands back: RFC3339 from our
// own writes and "2006-01-02 15:04:05" from CURRENT_TIMESTAMP defaults.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
