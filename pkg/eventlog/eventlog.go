package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrConcurrencyConflict = errors.New("concurrency conflict: version mismatch")
	ErrAggregateNotFound   = errors.New("aggregate not found")
)

// Event represents a domain event with full metadata.
type Event struct {
	ID            int64                  `json:"id"`
	AggregateID   uuid.UUID              `json:"aggregate_id"`
	AggregateType string                 `json:"aggregate_type"`
	EventType     string                 `json:"event_type"`
	EventData     json.RawMessage        `json:"event_data"`
	Metadata      map[string]interface{} `json:"metadata"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Log is an append-only journal of domain events with optimistic
// concurrency control per aggregate.
type Log interface {
	Append(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events []Event) error
	Load(ctx context.Context, aggregateID uuid.UUID, fromVersion, toVersion int) ([]Event, error)
	CurrentVersion(ctx context.Context, aggregateID uuid.UUID) (int, error)
}

// MemoryLog keeps the journal in process memory. It is the default
// backend: the platform does not require durability beyond process
// lifetime, but mutating services still rely on the version
// check-and-set to detect lost updates.
type MemoryLog struct {
	mu     sync.RWMutex
	nextID int64
	events map[uuid.UUID][]Event
	tracer trace.Tracer
}

// NewMemoryLog creates an empty in-memory event log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		events: make(map[uuid.UUID][]Event),
		tracer: otel.Tracer("memberhub/eventlog"),
	}
}

// Append atomically appends events with optimistic concurrency control.
func (l *MemoryLog) Append(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events []Event) error {
	_, span := l.tracer.Start(ctx, "eventlog.append",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
			attribute.String("aggregate.type", aggregateType),
			attribute.Int("expected.version", expectedVersion),
			attribute.Int("event.count", len(events)),
		),
	)
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	currentVersion := 0
	if existing := l.events[aggregateID]; len(existing) > 0 {
		currentVersion = existing[len(existing)-1].Version
	}

	if currentVersion != expectedVersion {
		span.SetAttributes(
			attribute.Int("actual.version", currentVersion),
			attribute.Bool("conflict.detected", true),
		)
		return ErrConcurrencyConflict
	}

	now := time.Now().UTC()
	for i, event := range events {
		l.nextID++
		event.ID = l.nextID
		event.AggregateID = aggregateID
		event.AggregateType = aggregateType
		event.Version = expectedVersion + i + 1
		event.CreatedAt = now
		l.events[aggregateID] = append(l.events[aggregateID], event)

		span.AddEvent("event.appended", trace.WithAttributes(
			attribute.Int64("event.id", event.ID),
			attribute.Int("event.version", event.Version),
			attribute.String("event.type", event.EventType),
		))
	}

	span.SetAttributes(attribute.Bool("append.success", true))
	return nil
}

// Load retrieves events for an aggregate with an optional version range.
// A toVersion of 0 means no upper bound.
func (l *MemoryLog) Load(ctx context.Context, aggregateID uuid.UUID, fromVersion, toVersion int) ([]Event, error) {
	_, span := l.tracer.Start(ctx, "eventlog.load",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
			attribute.Int("from.version", fromVersion),
			attribute.Int("to.version", toVersion),
		),
	)
	defer span.End()

	l.mu.RLock()
	defer l.mu.RUnlock()

	var events []Event
	for _, event := range l.events[aggregateID] {
		if event.Version < fromVersion {
			continue
		}
		if toVersion > 0 && event.Version > toVersion {
			continue
		}
		events = append(events, event)
	}

	span.SetAttributes(attribute.Int("events.loaded", len(events)))
	return events, nil
}

// CurrentVersion returns the latest version for an aggregate, 0 if the
// aggregate has no events.
func (l *MemoryLog) CurrentVersion(ctx context.Context, aggregateID uuid.UUID) (int, error) {
	_, span := l.tracer.Start(ctx, "eventlog.get_version",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
		),
	)
	defer span.End()

	l.mu.RLock()
	defer l.mu.RUnlock()

	version := 0
	if existing := l.events[aggregateID]; len(existing) > 0 {
		version = existing[len(existing)-1].Version
	}

	span.SetAttributes(attribute.Int("current.version", version))
	return version, nil
}
