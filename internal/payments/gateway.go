// internal/payments/gateway.go
package payments

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrGatewayDeclined is returned when the billing provider declines a
// charge. Callers must treat it as non-fatal: the member keeps its
// current tier.
var ErrGatewayDeclined = errors.New("payment declined by gateway")

// ChargeResult carries the opaque references assigned by the billing
// provider for a successful subscription charge.
type ChargeResult struct {
	CustomerRef     string `json:"customer_ref"`
	SubscriptionRef string `json:"subscription_ref"`
}

// Gateway abstracts the external billing provider.
type Gateway interface {
	Charge(ctx context.Context, memberID uuid.UUID) (ChargeResult, error)
}

// SimulatedGateway emulates the provider's processing latency and
// issues unique references from a monotonic counter. It holds no
// state about members.
type SimulatedGateway struct {
	latency     time.Duration
	counter     atomic.Int64
	declineNext atomic.Bool
	tracer      trace.Tracer
}

// NewSimulatedGateway creates a gateway that suspends each charge for
// the given latency. Zero latency resolves immediately.
func NewSimulatedGateway(latency time.Duration) *SimulatedGateway {
	return &SimulatedGateway{
		latency: latency,
		tracer:  otel.Tracer("memberhub/payments"),
	}
}

// DeclineNext arms the gateway to decline the next charge.
func (g *SimulatedGateway) DeclineNext() {
	g.declineNext.Store(true)
}

// Charge suspends for the configured latency, then resolves with fresh
// customer and subscription references. Cancelling the context aborts
// the charge without issuing references.
func (g *SimulatedGateway) Charge(ctx context.Context, memberID uuid.UUID) (ChargeResult, error) {
	ctx, span := g.tracer.Start(ctx, "payments.charge",
		trace.WithAttributes(
			attribute.String("member.id", memberID.String()),
		),
	)
	defer span.End()

	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			return ChargeResult{}, fmt.Errorf("charge cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return ChargeResult{}, fmt.Errorf("charge cancelled: %w", err)
	}

	if g.declineNext.CompareAndSwap(true, false) {
		span.SetAttributes(attribute.Bool("charge.declined", true))
		return ChargeResult{}, ErrGatewayDeclined
	}

	n := g.counter.Add(1)
	result := ChargeResult{
		CustomerRef:     fmt.Sprintf("cus_%d", n),
		SubscriptionRef: fmt.Sprintf("sub_%d", n),
	}

	span.SetAttributes(attribute.String("charge.customer_ref", result.CustomerRef))
	return result, nil
}
