package model

import "time"

// MediaType declares the kind of media attached to a content item.
type MediaType string

const (
	MediaTypeNone  MediaType = "none"
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// ParseMediaType normalizes a stored media type string. Empty and unknown
// values map to MediaTypeNone so a malformed row can never claim media it
// does not have.
func ParseMediaType(s string) MediaType {
	switch MediaType(s) {
	case MediaTypeImage:
		return MediaTypeImage
	case MediaTypeVideo:
		return MediaTypeVideo
	default:
		return MediaTypeNone
	}
}

// ContentItem is one publishable piece of content. MediaURL is a local file
// reference, empty when the item is text-only. LastPublishedAt is nil for
// items that have never been published; the repository boundary also maps
// unparsable stored timestamps to nil so they stay eligible rather than
// being silently excluded.
type ContentItem struct {
	ID              string
	Text            string
	MediaURL        string
	MediaType       MediaType
	LastPublishedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasMedia reports whether publishing this item requires the media upload
// protocol.
func (c ContentItem) HasMedia() bool {
	return c.MediaURL != "" && c.MediaType != MediaTypeNone
}

// Eligible reports whether the item may be published at the given instant:
// either it has never been published, or its last publication is at least
// one cooldown period old.
func (c ContentItem) Eligible(now time.Time, cooldown time.Duration) bool {
	if c.LastPublishedAt == nil {
		return true
	}
	return now.Sub(*c.LastPublishedAt) >= cooldown
}
