// internal/content/implementation.go
package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrContentNotFound = errors.New("content not found")

// service implements the Service interface over an immutable seeded
// catalog. The optional latency reproduces the original's simulated
// network delay for timing-sensitive consumers; it is zero by default.
type service struct {
	items   []Item
	byID    map[uuid.UUID]Item
	latency time.Duration
	tracer  trace.Tracer
}

// NewService creates a catalog over the given items.
func NewService(items []Item, latency time.Duration) Service {
	byID := make(map[uuid.UUID]Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &service{
		items:   items,
		byID:    byID,
		latency: latency,
		tracer:  otel.Tracer("memberhub/content"),
	}
}

func (s *service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// List returns every catalog item.
func (s *service) List(ctx context.Context) ([]Item, error) {
	ctx, span := s.tracer.Start(ctx, "content.list")
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	items := make([]Item, len(s.items))
	copy(items, s.items)

	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

// GetByID returns a single item.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	ctx, span := s.tracer.Start(ctx, "content.get_by_id",
		trace.WithAttributes(attribute.String("item.id", id.String())),
	)
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	item, ok := s.byID[id]
	if !ok {
		return nil, ErrContentNotFound
	}
	return &item, nil
}

// Filter returns the items matching every set field of the filter.
func (s *service) Filter(ctx context.Context, filter Filter) ([]Item, error) {
	ctx, span := s.tracer.Start(ctx, "content.filter",
		trace.WithAttributes(
			attribute.String("filter.query", filter.Query),
			attribute.String("filter.category", filter.Category),
			attribute.String("filter.tier", filter.Tier),
		),
	)
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	query := strings.ToLower(filter.Query)

	var items []Item
	for _, item := range s.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Tier != "" && item.Tier != filter.Tier {
			continue
		}
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		items = append(items, item)
	}

	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

func matchesQuery(item Item, query string) bool {
	return strings.Contains(strings.ToLower(item.Title), query) ||
		strings.Contains(strings.ToLower(item.Description), query) ||
		strings.Contains(strings.ToLower(item.Category), query)
}

// ListCategories returns the distinct category values present in the
// catalog. Order is unspecified.
func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "content.list_categories")
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var categories []string
	for _, item := range s.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories, nil
}
