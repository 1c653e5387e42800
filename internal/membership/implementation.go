// internal/membership/implementation.go
package membership

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"memberhub/internal/access"
	"memberhub/internal/payments"
	"memberhub/pkg/eventlog"
)

// ErrRateLimited is returned when sign-ups arrive faster than the
// service accepts them.
var ErrRateLimited = errors.New("rate limit exceeded")

// service implements the Service interface.
type service struct {
	store       *Store
	gateway     payments.Gateway
	eventLog    eventlog.Log
	rateLimiter *rate.Limiter
	tracer      trace.Tracer

	// locks serializes lifecycle transitions per member so a slow
	// gateway charge cannot interleave with another writer for the
	// same id.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewService creates a new membership lifecycle service.
func NewService(store *Store, gateway payments.Gateway, log eventlog.Log) Service {
	return &service{
		store:       store,
		gateway:     gateway,
		eventLog:    log,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 sign-ups per minute
		tracer:      otel.Tracer("memberhub/membership"),
		locks:       make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *service) memberLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// CreateFreeMember registers a new member on the free tier.
func (s *service) CreateFreeMember(ctx context.Context, email string) (*Member, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	ctx, span := s.tracer.Start(ctx, "membership.create_free_member")
	defer span.End()

	member, err := s.store.Create(email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	eventData := MemberCreatedEvent{
		ID:    member.ID,
		Email: member.Email,
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventlog.Event{
		EventType: "MemberCreated",
		EventData: jsonData,
	}

	if err := s.eventLog.Append(ctx, member.ID, "member", 0, []eventlog.Event{event}); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	span.SetAttributes(attribute.String("member.id", member.ID.String()))
	return &member, nil
}

// UpgradeToPremium charges the gateway and moves the member to the
// premium tier. Upgrading an already premium member is a no-op that
// returns the current record without charging. Any failure leaves the
// member unchanged.
func (s *service) UpgradeToPremium(ctx context.Context, id uuid.UUID) (*Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.upgrade_to_premium",
		trace.WithAttributes(attribute.String("member.id", id.String())),
	)
	defer span.End()

	lock := s.memberLock(id)
	lock.Lock()
	defer lock.Unlock()

	member, err := s.store.Get(id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if member.IsPremium() {
		span.SetAttributes(attribute.Bool("upgrade.noop", true))
		return &member, nil
	}

	result, err := s.gateway.Charge(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("gateway charge failed: %w", err)
	}

	eventData := MemberUpgradedEvent{
		ID:              id,
		CustomerRef:     result.CustomerRef,
		SubscriptionRef: result.SubscriptionRef,
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventlog.Event{
		EventType: "MemberUpgraded",
		EventData: jsonData,
	}

	if err := s.eventLog.Append(ctx, id, "member", member.Version, []eventlog.Event{event}); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	member.Tier = access.TierPremium
	member.CustomerRef = &result.CustomerRef
	member.SubscriptionRef = &result.SubscriptionRef

	updated, err := s.store.Put(member)
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return &updated, nil
}

// CancelSubscription moves the member back to the free tier and clears
// both gateway references. Cancelling a free member is a no-op.
func (s *service) CancelSubscription(ctx context.Context, id uuid.UUID) (*Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.cancel_subscription",
		trace.WithAttributes(attribute.String("member.id", id.String())),
	)
	defer span.End()

	lock := s.memberLock(id)
	lock.Lock()
	defer lock.Unlock()

	member, err := s.store.Get(id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if !member.IsPremium() {
		span.SetAttributes(attribute.Bool("cancel.noop", true))
		return &member, nil
	}

	eventData := SubscriptionCancelledEvent{ID: id}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventlog.Event{
		EventType: "SubscriptionCancelled",
		EventData: jsonData,
	}

	if err := s.eventLog.Append(ctx, id, "member", member.Version, []eventlog.Event{event}); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	member.Tier = access.TierFree
	member.CustomerRef = nil
	member.SubscriptionRef = nil

	updated, err := s.store.Put(member)
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return &updated, nil
}

// GetMember retrieves a member by id.
func (s *service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	member, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &member, nil
}
