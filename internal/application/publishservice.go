package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

// PublishService composes a text body and an optional media reference into a
// provider publish request and submits it, classifying the outcome. One call
// is one attempt: it either fully succeeds or fully fails, with no retries
// and no text-only fallback when media was requested.
type PublishService struct {
	tokens   *TokenService
	pipeline *UploadPipeline
	network  driven.SocialNetwork
}

// NewPublishService creates a PublishService.
func NewPublishService(tokens *TokenService, pipeline *UploadPipeline, network driven.SocialNetwork) *PublishService {
	return &PublishService{tokens: tokens, pipeline: pipeline, network: network}
}

// Publish submits one post for the account. mediaURL is a local file path,
// empty for text-only posts. Publish failures come back as *PublishError;
// credential store read failures are returned as plain wrapped errors.
func (s *PublishService) Publish(ctx context.Context, accountKey, text, mediaURL string, mediaType model.MediaType) error {
	cred, err := s.tokens.EnsureCredential(ctx, accountKey)
	if err != nil {
		if errors.Is(err, ErrCredentialMissing) {
			return &PublishError{Kind: PublishUnauthenticated, Err: err}
		}
		// A store read failure says nothing about the credential itself.
		return err
	}

	var assetID string
	if mediaURL != "" {
		// An item that claims media must never go out without it. A media
		// reference with no usable media type cannot be uploaded, so it fails
		// here rather than degrading to a text-only post.
		if mediaType == model.MediaTypeNone {
			return &PublishError{
				Kind: PublishMediaFailed,
				Err:  fmt.Errorf("media %q has no usable media type", mediaURL),
			}
		}
		if cred.MemberID == "" {
			return &PublishError{
				Kind: PublishMissingAccountID,
				Err:  errors.New("media upload requires a resolved member id"),
			}
		}

		assetID, err = s.pipeline.Upload(ctx, *cred, mediaURL, mediaType)
		if err != nil {
			return &PublishError{Kind: PublishMediaFailed, Err: err}
		}
	}

	if err := s.network.CreatePost(ctx, *cred, text, assetID, mediaType); err != nil {
		var remote *driven.RemoteError
		if errors.As(err, &remote) {
			kind := PublishRemoteRejected
			if remote.StatusCode == http.StatusUnauthorized {
				kind = PublishUnauthenticated
			}
			return &PublishError{Kind: kind, StatusCode: remote.StatusCode, Body: remote.Body, Err: err}
		}
		return &PublishError{Kind: PublishNetworkFailed, Err: err}
	}

	slog.Info("post submitted",
		"account", accountKey,
		"has_media", assetID != "",
		"chars", len(text),
	)
	return nil
}
