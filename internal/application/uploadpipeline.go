package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

// UploadPipeline executes the provider's multi-step binary upload protocol:
// register an upload slot, transfer the bytes, confirm the asset. Steps are
// strictly sequential; any failure marks the session failed and aborts. The
// publish step never runs against an unconfirmed asset.
type UploadPipeline struct {
	network  driven.SocialNetwork
	readFile func(string) ([]byte, error)
}

// NewUploadPipeline creates an UploadPipeline reading media from the local
// filesystem.
func NewUploadPipeline(network driven.SocialNetwork) *UploadPipeline {
	return &UploadPipeline{network: network, readFile: os.ReadFile}
}

// Upload runs register -> transfer -> confirm and returns the confirmed
// media reference. Failures carry the stage that broke as a *MediaError.
func (p *UploadPipeline) Upload(ctx context.Context, cred model.Credential, mediaPath string, mediaType model.MediaType) (string, error) {
	session := &model.UploadSession{Status: model.UploadStatusRegistered}

	reg, err := p.network.RegisterUpload(ctx, cred, mediaType)
	if err != nil {
		session.Fail()
		return "", &MediaError{Stage: MediaStageRegister, Err: err}
	}
	session.AssetID = reg.AssetID

	session.UploadURL = reg.UploadURL
	if session.UploadURL == "" {
		uploadURL, err := p.network.FetchUploadURL(ctx, cred, session.AssetID)
		if err != nil {
			session.Fail()
			return "", &MediaError{Stage: MediaStageRegister, Err: err}
		}
		session.UploadURL = uploadURL
	}

	if err := session.Advance(model.UploadStatusUploading); err != nil {
		session.Fail()
		return "", &MediaError{Stage: MediaStageTransfer, Err: err}
	}

	data, err := p.readFile(mediaPath)
	if err != nil {
		session.Fail()
		return "", &MediaError{Stage: MediaStageTransfer, Err: fmt.Errorf("read media %q: %w", mediaPath, err)}
	}

	if err := p.network.UploadBinary(ctx, session.UploadURL, data, mediaType); err != nil {
		session.Fail()
		return "", &MediaError{Stage: MediaStageTransfer, Err: err}
	}

	if err := session.Advance(model.UploadStatusUploaded); err != nil {
		session.Fail()
		return "", &MediaError{Stage: MediaStageConfirm, Err: err}
	}

	if err := p.network.ConfirmUpload(ctx, cred, session.AssetID); err != nil {
		session.Fail()
		return "", &MediaError{Stage: MediaStageConfirm, Err: err}
	}

	if err := session.Advance(model.UploadStatusConfirmed); err != nil {
		session.Fail()
		return "", &MediaError{Stage: MediaStageConfirm, Err: err}
	}

	slog.Debug("media upload confirmed",
		"asset", session.AssetID,
		"media_type", string(mediaType),
		"bytes", len(data),
	)
	return session.AssetID, nil
}
