package driven

import (
	"context"
	"fmt"

	"github.com/socialpilot/socialpilot/internal/domain/model"
)

// RemoteError is a non-2xx response from the provider, carrying the status
// and raw body so the application layer can classify failures without
// knowing the adapter.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("provider API error (status %d): %s", e.StatusCode, e.Body)
}

// TokenGrant is the result of exchanging an authorization code with the
// identity provider.
type TokenGrant struct {
	AccessToken string
	ExpiresIn   int64 // Seconds until the token expires.
}

// RegisteredUpload is the provider-side upload slot created by RegisterUpload.
type RegisteredUpload struct {
	AssetID   string
	UploadURL string
}

// SocialNetwork defines the driven port for the social-network provider API:
// the OAuth grant exchange, account-info lookup, the multi-step media upload
// protocol, and post submission. Implementations return *RemoteError for
// non-2xx responses so the application layer can classify them.
type SocialNetwork interface {
	// ExchangeToken performs the one-time authorization-code exchange.
	ExchangeToken(ctx context.Context, code, redirectURI string) (*TokenGrant, error)

	// FetchMemberID resolves the provider-side account identifier for the
	// bearer token.
	FetchMemberID(ctx context.Context, token string) (string, error)

	// RegisterUpload requests an upload slot for the declared media kind,
	// scoped to the credential's account.
	RegisterUpload(ctx context.Context, cred model.Credential, mediaType model.MediaType) (*RegisteredUpload, error)

	// FetchUploadURL retrieves the one-time upload target for a registered
	// asset when registration did not include one.
	FetchUploadURL(ctx context.Context, cred model.Credential, assetID string) (string, error)

	// UploadBinary transfers the raw media bytes to the upload target in a
	// single PUT. Any non-2xx response is an error; there is no resumable or
	// chunked retry.
	UploadBinary(ctx context.Context, uploadURL string, data []byte, mediaType model.MediaType) error

	// ConfirmUpload marks the registered asset as available for publishing.
	ConfirmUpload(ctx context.Context, cred model.Credential, assetID string) error

	// CreatePost submits a post. assetID is empty for text-only posts.
	// Visibility is always public.
	CreatePost(ctx context.Context, cred model.Credential, text, assetID string, mediaType model.MediaType) error
}
