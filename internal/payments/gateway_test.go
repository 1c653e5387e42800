package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeIssuesUniqueRefs(t *testing.T) {
	gw := NewSimulatedGateway(0)
	ctx := context.Background()
	memberID := uuid.New()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		result, err := gw.Charge(ctx, memberID)
		require.NoError(t, err)
		assert.NotEmpty(t, result.CustomerRef)
		assert.NotEmpty(t, result.SubscriptionRef)
		assert.False(t, seen[result.CustomerRef], "customer refs must be unique per call")
		assert.False(t, seen[result.SubscriptionRef], "subscription refs must be unique per call")
		seen[result.CustomerRef] = true
		seen[result.SubscriptionRef] = true
	}
}

func TestChargeDecline(t *testing.T) {
	gw := NewSimulatedGateway(0)
	ctx := context.Background()

	gw.DeclineNext()
	_, err := gw.Charge(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrGatewayDeclined)

	// Decline is one-shot.
	_, err = gw.Charge(ctx, uuid.New())
	assert.NoError(t, err)
}

func TestChargeCancellation(t *testing.T) {
	gw := NewSimulatedGateway(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := gw.Charge(ctx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "cancelled charge must not wait out the latency")
}

func TestChargeLatency(t *testing.T) {
	gw := NewSimulatedGateway(20 * time.Millisecond)

	start := time.Now()
	_, err := gw.Charge(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
