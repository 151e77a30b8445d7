package driven

import (
	"context"
	"errors"

	"github.com/socialpilot/socialpilot/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
// SOCIALPILOT_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set SOCIALPILOT_SECRET_KEY")

// CredentialStore defines the driven port for credential persistence.
// The adapter layer is responsible for encrypting tokens at rest; this
// interface operates on plaintext values at the domain boundary. There is
// exactly one record per account key and writes replace it wholesale --
// callers must never assume field-level merging.
type CredentialStore interface {
	// Get retrieves the credential for the given account key.
	// Returns (nil, nil) if no credential exists.
	Get(ctx context.Context, accountKey string) (*model.Credential, error)

	// Set stores or replaces the credential for its account key.
	Set(ctx context.Context, cred model.Credential) error

	// Delete removes the credential for the given account key.
	Delete(ctx context.Context, accountKey string) error
}
