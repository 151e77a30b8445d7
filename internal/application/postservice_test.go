package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

func newTestPostService(content *fakeContentStore, network *fakeNetwork, gen *fakeGenerator) *PostService {
	store := newFakeCredStore()
	store.creds["acct"] = validCredential("acct")
	publisher := newTestPublisher(store, network)
	selector := NewSelector(gen, testCooldown, "prompt")
	return NewPostService(content, selector, publisher, "acct")
}

func TestRunOnceStampsAfterSuccess(t *testing.T) {
	content := newFakeContentStore(model.ContentItem{ID: "item-1", Text: "hello"})
	network := &fakeNetwork{}
	svc := newTestPostService(content, network, &fakeGenerator{})

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Equal(t, 1, network.postCalls)
	stamped, ok := content.updated["item-1"]
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), stamped, 5*time.Second)
}

func TestRunOncePublishFailureLeavesTimestampUntouched(t *testing.T) {
	content := newFakeContentStore(model.ContentItem{ID: "item-1", Text: "hello"})
	network := &fakeNetwork{
		postErr: &driven.RemoteError{StatusCode: 500, Body: "server error"},
	}
	svc := newTestPostService(content, network, &fakeGenerator{})

	err := svc.RunOnce(context.Background())
	var pubErr *PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Empty(t, content.updated)
}

func TestRunOnceGeneratedContentPersistedBeforePublish(t *testing.T) {
	content := newFakeContentStore() // nothing to select
	network := &fakeNetwork{}
	gen := &fakeGenerator{text: "generated text"}
	svc := newTestPostService(content, network, gen)

	require.NoError(t, svc.RunOnce(context.Background()))

	require.Len(t, content.created, 1)
	assert.Equal(t, "generated text", content.created[0].Text)
	assert.Equal(t, "generated text", network.lastText)

	// The stored row gets the cooldown stamp so it is not re-picked next run.
	_, ok := content.updated["generated-1"]
	assert.True(t, ok)
}

func TestRunOnceGeneratedStoreFailureAbortsBeforePublish(t *testing.T) {
	content := newFakeContentStore()
	content.createErr = errors.New("disk full")
	network := &fakeNetwork{}
	svc := newTestPostService(content, network, &fakeGenerator{text: "generated"})

	err := svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store generated content")
	assert.Zero(t, network.postCalls)
}

func TestRunOnceListFailure(t *testing.T) {
	content := newFakeContentStore()
	content.listErr = errors.New("database locked")
	svc := newTestPostService(content, &fakeNetwork{}, &fakeGenerator{})

	err := svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list candidates")
}

func TestRunOnceStampFailureSurfaces(t *testing.T) {
	content := newFakeContentStore(model.ContentItem{ID: "item-1", Text: "hello"})
	content.updateErr = errors.New("database locked")
	network := &fakeNetwork{}
	svc := newTestPostService(content, network, &fakeGenerator{})

	err := svc.RunOnce(context.Background())
	require.Error(t, err)
	// The post itself went out before the stamp failed.
	assert.Equal(t, 1, network.postCalls)
}
