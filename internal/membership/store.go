// internal/membership/store.go
package membership

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"memberhub/internal/access"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidInput   = errors.New("invalid input")
)

// Store owns the canonical record for each member. All accessors copy
// records in and out; callers never share a reference with the store.
type Store struct {
	mu      sync.RWMutex
	members map[uuid.UUID]Member
}

// NewStore creates an empty member store.
func NewStore() *Store {
	return &Store{
		members: make(map[uuid.UUID]Member),
	}
}

// Get returns the member with the given id.
func (s *Store) Get(id uuid.UUID) (Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, ok := s.members[id]
	if !ok {
		return Member{}, ErrMemberNotFound
	}
	return member, nil
}

// Put fully replaces a member record, preserving id and joinedAt and
// bumping the version. The member must already exist.
func (s *Store) Put(member Member) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.members[member.ID]
	if !ok {
		return Member{}, ErrMemberNotFound
	}

	member.JoinedAt = existing.JoinedAt
	member.UpdatedAt = time.Now().UTC()
	member.Version = existing.Version + 1
	s.members[member.ID] = member
	return member, nil
}

// Create registers a new free member. Multiple members may share an
// email; the store does not enforce uniqueness.
func (s *Store) Create(email string) (Member, error) {
	if !validEmail(email) {
		return Member{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	member := Member{
		ID:        uuid.New(),
		Email:     email,
		Tier:      access.TierFree,
		JoinedAt:  now,
		UpdatedAt: now,
		Version:   1,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID] = member
	return member, nil
}

// validEmail requires a non-empty local part followed by "@" and a
// non-empty remainder. Anything stricter is the billing provider's
// problem.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
