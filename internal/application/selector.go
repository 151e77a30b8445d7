package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

// Selector picks a publishable item from the candidate set, falling back to
// on-demand generation when nothing is eligible.
type Selector struct {
	generator driven.TextGenerator
	cooldown  time.Duration
	prompt    string
	pick      func(n int) int
}

// NewSelector creates a Selector. Selection among eligible items is uniform
// random, with no weighting by staleness.
func NewSelector(generator driven.TextGenerator, cooldown time.Duration, prompt string) *Selector {
	return &Selector{
		generator: generator,
		cooldown:  cooldown,
		prompt:    prompt,
		pick:      rand.IntN,
	}
}

// Selection is the outcome of SelectOrGenerate. Generated is true when the
// item was freshly produced by the text generator and does not yet exist in
// the content repository.
type Selection struct {
	Item      model.ContentItem
	Generated bool
}

// SelectOrGenerate filters candidates by the cooldown window and picks one at
// random. With an empty eligible set it asks the generator for fresh text and
// wraps it as a new media-less item.
func (s *Selector) SelectOrGenerate(ctx context.Context, candidates []model.ContentItem) (*Selection, error) {
	eligible := eligibleItems(candidates, time.Now(), s.cooldown)
	if len(eligible) > 0 {
		item := eligible[s.pick(len(eligible))]
		slog.Debug("content selected",
			"id", item.ID,
			"candidates", len(candidates),
			"eligible", len(eligible),
		)
		return &Selection{Item: item}, nil
	}

	slog.Info("no eligible content, generating", "candidates", len(candidates))
	text, err := s.generator.Generate(ctx, s.prompt)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return &Selection{
		Item:      model.ContentItem{Text: text, MediaType: model.MediaTypeNone},
		Generated: true,
	}, nil
}

// eligibleItems returns the candidates whose last publication is absent or
// at least one cooldown period old.
func eligibleItems(candidates []model.ContentItem, now time.Time, cooldown time.Duration) []model.ContentItem {
	var eligible []model.ContentItem
	for _, item := range candidates {
		if item.Eligible(now, cooldown) {
			eligible = append(eligible, item)
		}
	}
	return eligible
}
