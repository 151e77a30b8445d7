// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

// TokenService owns the credential lifecycle: loading, expiry enforcement,
// and the one-time grant exchange. It never re-authorizes on its own -- a
// missing or expired credential is surfaced as ErrCredentialMissing and the
// caller must run an explicit exchange.
type TokenService struct {
	creds   driven.CredentialStore
	network driven.SocialNetwork
}

// NewTokenService creates a TokenService.
func NewTokenService(creds driven.CredentialStore, network driven.SocialNetwork) *TokenService {
	return &TokenService{creds: creds, network: network}
}

// EnsureCredential loads the account's credential and enforces the expiry
// buffer. Returns ErrCredentialMissing when absent or no longer usable.
func (s *TokenService) EnsureCredential(ctx context.Context, accountKey string) (*model.Credential, error) {
	cred, err := s.creds.Get(ctx, accountKey)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if !cred.Usable(time.Now()) {
		return nil, ErrCredentialMissing
	}
	return cred, nil
}

// HasValidCredential reports whether a usable credential is stored for the
// account. Read-only, no side effects.
func (s *TokenService) HasValidCredential(ctx context.Context, accountKey string) (bool, error) {
	cred, err := s.creds.Get(ctx, accountKey)
	if err != nil {
		return false, fmt.Errorf("load credential: %w", err)
	}
	return cred.Usable(time.Now()), nil
}

// ExchangeGrant exchanges an authorization code for a credential and persists
// it. If a usable credential is already stored it is returned unchanged
// without contacting the provider: authorization codes are single-use, and a
// repeated call must not burn a fresh one. Member-id resolution is best
// effort; on failure the credential is stored with an empty member id.
func (s *TokenService) ExchangeGrant(ctx context.Context, accountKey, code, redirectURI string) (*model.Credential, error) {
	existing, err := s.creds.Get(ctx, accountKey)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if existing.Usable(time.Now()) {
		slog.Info("usable credential already stored, skipping exchange", "account", accountKey)
		return existing, nil
	}

	grant, err := s.network.ExchangeToken(ctx, code, redirectURI)
	if err != nil {
		var remote *driven.RemoteError
		if errors.As(err, &remote) {
			return nil, &ExchangeError{StatusCode: remote.StatusCode, Body: remote.Body, Err: err}
		}
		return nil, &ExchangeError{Err: err}
	}

	cred := model.Credential{
		AccountKey: accountKey,
		Token:      grant.AccessToken,
		ExpiresAt:  time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second),
	}

	memberID, err := s.network.FetchMemberID(ctx, cred.Token)
	if err != nil {
		// Non-fatal: text-only publishing works without a member id.
		slog.Warn("member id resolution failed, storing empty", "account", accountKey, "error", err)
	} else {
		cred.MemberID = memberID
	}

	if err := s.creds.Set(ctx, cred); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}

	slog.Info("credential stored",
		"account", accountKey,
		"member_id_resolved", cred.MemberID != "",
		"expires_at", cred.ExpiresAt,
	)
	return &cred, nil
}
