package application

import (
	"context"
	"sync"
	"time"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

// fakeCredStore is an in-memory CredentialStore.
type fakeCredStore struct {
	mu       sync.Mutex
	creds    map[string]model.Credential
	getErr   error
	setErr   error
	setCalls int
}

func newFakeCredStore() *fakeCredStore {
	return &fakeCredStore{creds: make(map[string]model.Credential)}
}

func (f *fakeCredStore) Get(ctx context.Context, accountKey string) (*model.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	cred, ok := f.creds[accountKey]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

func (f *fakeCredStore) Set(ctx context.Context, cred model.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.creds[cred.AccountKey] = cred
	return nil
}

func (f *fakeCredStore) Delete(ctx context.Context, accountKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.creds, accountKey)
	return nil
}

// fakeNetwork is a scriptable SocialNetwork.
type fakeNetwork struct {
	exchangeGrant *driven.TokenGrant
	exchangeErr   error
	exchangeCalls int

	memberID   string
	memberErr  error
	memberCall int

	registered    *driven.RegisteredUpload
	registerErr   error
	registerCalls int

	uploadURL     string
	uploadURLErr  error
	uploadURLCall int

	uploadErr   error
	uploadCalls int
	uploadedTo  string

	confirmErr   error
	confirmCalls int

	postErr   error
	postCalls int

	lastText      string
	lastAssetID   string
	lastMediaType model.MediaType
}

func (f *fakeNetwork) ExchangeToken(ctx context.Context, code, redirectURI string) (*driven.TokenGrant, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeGrant, nil
}

func (f *fakeNetwork) FetchMemberID(ctx context.Context, token string) (string, error) {
	f.memberCall++
	if f.memberErr != nil {
		return "", f.memberErr
	}
	return f.memberID, nil
}

func (f *fakeNetwork) RegisterUpload(ctx context.Context, cred model.Credential, mediaType model.MediaType) (*driven.RegisteredUpload, error) {
	f.registerCalls++
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registered, nil
}

func (f *fakeNetwork) FetchUploadURL(ctx context.Context, cred model.Credential, assetID string) (string, error) {
	f.uploadURLCall++
	if f.uploadURLErr != nil {
		return "", f.uploadURLErr
	}
	return f.uploadURL, nil
}

func (f *fakeNetwork) UploadBinary(ctx context.Context, uploadURL string, data []byte, mediaType model.MediaType) error {
	f.uploadCalls++
	f.uploadedTo = uploadURL
	return f.uploadErr
}

func (f *fakeNetwork) ConfirmUpload(ctx context.Context, cred model.Credential, assetID string) error {
	f.confirmCalls++
	return f.confirmErr
}

func (f *fakeNetwork) CreatePost(ctx context.Context, cred model.Credential, text, assetID string, mediaType model.MediaType) error {
	f.postCalls++
	f.lastText = text
	f.lastAssetID = assetID
	f.lastMediaType = mediaType
	return f.postErr
}

// fakeGenerator is a scriptable TextGenerator.
type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeContentStore is an in-memory ContentStore.
type fakeContentStore struct {
	items     []model.ContentItem
	listErr   error
	created   []model.ContentItem
	createErr error
	updated   map[string]time.Time
	updateErr error
}

func newFakeContentStore(items ...model.ContentItem) *fakeContentStore {
	return &fakeContentStore{items: items, updated: make(map[string]time.Time)}
}

func (f *fakeContentStore) ListCandidates(ctx context.Context) ([]model.ContentItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeContentStore) Create(ctx context.Context, item model.ContentItem) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if item.ID == "" {
		item.ID = "generated-1"
	}
	f.created = append(f.created, item)
	return item.ID, nil
}

func (f *fakeContentStore) UpdateLastPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[id] = publishedAt
	return nil
}

// validCredential returns a credential usable well past the expiry buffer.
func validCredential(accountKey string) model.Credential {
	return model.Credential{
		AccountKey: accountKey,
		Token:      "tok-valid",
		MemberID:   "member-1",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}
