// internal/forum/service.go
package forum

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the forum catalog.
type Service interface {
	ListDiscussions(ctx context.Context) ([]Discussion, error)
	ListDiscussionsByCategory(ctx context.Context, category string) ([]Discussion, error)
	GetDiscussion(ctx context.Context, id uuid.UUID) (*Discussion, error)
	CreateDiscussion(ctx context.Context, data NewDiscussion) (*Discussion, error)
	UpdateDiscussion(ctx context.Context, id uuid.UUID, patch DiscussionPatch) (*Discussion, error)
	DeleteDiscussion(ctx context.Context, id uuid.UUID) error

	ListReplies(ctx context.Context, discussionID uuid.UUID) ([]Reply, error)
	CreateReply(ctx context.Context, discussionID uuid.UUID, data NewReply) (*Reply, error)
	UpdateReply(ctx context.Context, id uuid.UUID, content string) (*Reply, error)
	DeleteReply(ctx context.Context, id uuid.UUID) error

	Categories() []string
}
