// internal/membership/service.go
package membership

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the membership lifecycle.
type Service interface {
	CreateFreeMember(ctx context.Context, email string) (*Member, error)
	UpgradeToPremium(ctx context.Context, id uuid.UUID) (*Member, error)
	CancelSubscription(ctx context.Context, id uuid.UUID) (*Member, error)
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
}
