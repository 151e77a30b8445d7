package driven

import (
	"context"
	"time"

	"github.com/socialpilot/socialpilot/internal/domain/model"
)

// ContentStore defines the driven port for the content repository. The
// publishing pipeline never queries or paginates beyond this surface: it
// reads one bounded candidate set, creates generated items, and writes back
// a single timestamp after a confirmed publish.
type ContentStore interface {
	// ListCandidates returns a bounded set of publish candidates, oldest
	// published first with never-published items leading.
	ListCandidates(ctx context.Context) ([]model.ContentItem, error)

	// Create persists a new content item and returns its assigned id.
	Create(ctx context.Context, item model.ContentItem) (string, error)

	// UpdateLastPublished records a successful publish time for an item.
	UpdateLastPublished(ctx context.Context, id string, publishedAt time.Time) error
}
