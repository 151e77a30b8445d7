package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

// PostService is one full pass of the publishing pipeline: read the bounded
// candidate set, select or generate content, publish it, and record the
// publish time. The cooldown timestamp is written only after a confirmed
// publish, so a failed attempt leaves the item's eligibility untouched.
type PostService struct {
	content    driven.ContentStore
	selector   *Selector
	publisher  *PublishService
	accountKey string
}

// NewPostService creates a PostService publishing on behalf of accountKey.
func NewPostService(content driven.ContentStore, selector *Selector, publisher *PublishService, accountKey string) *PostService {
	return &PostService{
		content:    content,
		selector:   selector,
		publisher:  publisher,
		accountKey: accountKey,
	}
}

// RunOnce executes a single publish cycle.
func (s *PostService) RunOnce(ctx context.Context) error {
	candidates, err := s.content.ListCandidates(ctx)
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}

	sel, err := s.selector.SelectOrGenerate(ctx, candidates)
	if err != nil {
		return err
	}

	item := sel.Item
	if sel.Generated {
		// Persist first so a successful publish has an id to stamp.
		id, err := s.content.Create(ctx, item)
		if err != nil {
			return fmt.Errorf("store generated content: %w", err)
		}
		item.ID = id
	}

	if err := s.publisher.Publish(ctx, s.accountKey, item.Text, item.MediaURL, item.MediaType); err != nil {
		return err
	}

	publishedAt := time.Now()
	if err := s.content.UpdateLastPublished(ctx, item.ID, publishedAt); err != nil {
		// The post is out; losing the timestamp only risks an early repost.
		return fmt.Errorf("record publish time for %s: %w", item.ID, err)
	}

	slog.Info("publish cycle complete",
		"id", item.ID,
		"generated", sel.Generated,
		"has_media", item.HasMedia(),
	)
	return nil
}
