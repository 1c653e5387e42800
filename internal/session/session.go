// internal/session/session.go
package session

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Manager maps opaque session tokens to member ids. It replaces the
// implicit "current member" of the original front end: every caller
// must present a token, there is no ambient default.
type Manager struct {
	sessions *cache.Cache
	ttl      time.Duration
}

// NewManager creates a session registry whose entries expire after ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: cache.New(ttl, 2*ttl),
		ttl:      ttl,
	}
}

// Start opens a session for the given member and returns its token.
func (m *Manager) Start(memberID uuid.UUID) string {
	token := newToken()
	m.sessions.Set(token, memberID, m.ttl)
	return token
}

// MemberID resolves a token to a member id. A hit refreshes the
// session's expiry.
func (m *Manager) MemberID(token string) (uuid.UUID, bool) {
	v, ok := m.sessions.Get(token)
	if !ok {
		return uuid.Nil, false
	}
	m.sessions.Set(token, v, m.ttl)
	return v.(uuid.UUID), true
}

// End closes a session. Ending an unknown token is a no-op.
func (m *Manager) End(token string) {
	m.sessions.Delete(token)
}

func newToken() string {
	buf := make([]byte, 24)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
