// internal/content/service.go
package content

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the content catalog.
type Service interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Filter(ctx context.Context, filter Filter) ([]Item, error)
	ListCategories(ctx context.Context) ([]string, error)
}
