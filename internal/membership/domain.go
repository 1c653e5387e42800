// internal/membership/domain.go
package membership

import (
	"time"

	"github.com/google/uuid"

	"memberhub/internal/access"
)

// Member represents a platform member.
type Member struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Tier            string    `json:"tier"`
	CustomerRef     *string   `json:"customer_ref"`
	SubscriptionRef *string   `json:"subscription_ref"`
	JoinedAt        time.Time `json:"joined_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

// IsPremium reports whether the member currently holds a premium
// subscription. Invariant: premium members carry both gateway refs,
// free members carry neither.
func (m Member) IsPremium() bool {
	return m.Tier == access.TierPremium
}

// MemberCreatedEvent is recorded when a new free member signs up.
type MemberCreatedEvent struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// MemberUpgradedEvent is recorded when a member becomes premium.
type MemberUpgradedEvent struct {
	ID              uuid.UUID `json:"id"`
	CustomerRef     string    `json:"customer_ref"`
	SubscriptionRef string    `json:"subscription_ref"`
}

// SubscriptionCancelledEvent is recorded when a member drops back to free.
type SubscriptionCancelledEvent struct {
	ID uuid.UUID `json:"id"`
}
