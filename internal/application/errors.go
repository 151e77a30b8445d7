package application

import (
	"errors"
	"fmt"
)

// ErrCredentialMissing is returned when no usable credential exists for an
// account. It is a hard stop: the account must be re-linked through an
// explicit grant exchange, never an automatic re-authorization.
var ErrCredentialMissing = errors.New("no usable credential: account must be re-linked")

// ExchangeError is a failed authorization-code exchange. StatusCode and Body
// are zero when the failure was a transport error rather than a provider
// rejection.
type ExchangeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("grant exchange rejected (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("grant exchange failed: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// MediaStage identifies the step of the upload protocol that failed.
type MediaStage string

const (
	MediaStageRegister MediaStage = "register"
	MediaStageTransfer MediaStage = "transfer"
	MediaStageConfirm  MediaStage = "confirm"
)

// MediaError is a failure of the media upload pipeline at a specific stage.
type MediaError struct {
	Stage MediaStage
	Err   error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media %s failed: %v", e.Stage, e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

// PublishErrorKind classifies a failed publish attempt.
type PublishErrorKind string

const (
	PublishUnauthenticated  PublishErrorKind = "unauthenticated"
	PublishMissingAccountID PublishErrorKind = "missing_account_id"
	PublishMediaFailed      PublishErrorKind = "media_failed"
	PublishRemoteRejected   PublishErrorKind = "remote_rejected"
	PublishNetworkFailed    PublishErrorKind = "network"
)

// PublishError is a failed publish attempt. StatusCode and Body are set for
// remote rejections so the scheduler can log the full provider response.
type PublishError struct {
	Kind       PublishErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *PublishError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("publish failed (%s, status %d): %s", e.Kind, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("publish failed (%s): %v", e.Kind, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
