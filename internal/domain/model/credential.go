package model

import "time"

// TokenExpiryBuffer is subtracted from a credential's nominal expiry so a
// token is never used when it could expire mid-request.
const TokenExpiryBuffer = 5 * time.Minute

// Credential holds the bearer token authorizing calls to the social network
// on behalf of one account. AccountKey is the opaque user identifier (an
// email address in practice); MemberID is the provider-side account id and
// may be empty when resolution failed at exchange time. Records are replaced
// wholesale on refresh, never merged field by field.
type Credential struct {
	AccountKey string
	Token      string
	MemberID   string
	ExpiresAt  time.Time
}

// Usable reports whether the credential can still back an API call at the
// given instant, applying TokenExpiryBuffer against the nominal expiry.
func (c *Credential) Usable(now time.Time) bool {
	if c == nil || c.Token == "" {
		return false
	}
	return now.Before(c.ExpiresAt.Add(-TokenExpiryBuffer))
}
