package membership

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberhub/internal/access"
	"memberhub/internal/payments"
	"memberhub/pkg/eventlog"
)

func newTestService(t *testing.T, gatewayLatency time.Duration) (Service, *payments.SimulatedGateway, *eventlog.MemoryLog) {
	t.Helper()
	gateway := payments.NewSimulatedGateway(gatewayLatency)
	log := eventlog.NewMemoryLog()
	svc := NewService(NewStore(), gateway, log)
	return svc, gateway, log
}

func TestCreateFreeMember(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	member, err := svc.CreateFreeMember(ctx, "a@b.com")
	require.NoError(t, err)

	assert.Equal(t, access.TierFree, member.Tier)
	assert.Equal(t, "a@b.com", member.Email)
	assert.Nil(t, member.CustomerRef)
	assert.Nil(t, member.SubscriptionRef)
	assert.False(t, member.JoinedAt.IsZero())

	got, err := svc.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, got.ID)
	assert.Equal(t, access.TierFree, got.Tier)
}

func TestCreateFreeMemberInvalidEmail(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	for _, email := range []string{"", "no-at-sign", "trailing@", "@leading"} {
		_, err := svc.CreateFreeMember(ctx, email)
		assert.ErrorIs(t, err, ErrInvalidInput, "email %q should be rejected", email)
	}
}

func TestCreateFreeMemberDuplicateEmailAllowed(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	first, err := svc.CreateFreeMember(ctx, "same@example.com")
	require.NoError(t, err)
	second, err := svc.CreateFreeMember(ctx, "same@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpgradeToPremium(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	member, err := svc.CreateFreeMember(ctx, "a@b.com")
	require.NoError(t, err)

	upgraded, err := svc.UpgradeToPremium(ctx, member.ID)
	require.NoError(t, err)

	assert.Equal(t, access.TierPremium, upgraded.Tier)
	require.NotNil(t, upgraded.CustomerRef)
	require.NotNil(t, upgraded.SubscriptionRef)
	assert.Equal(t, member.JoinedAt, upgraded.JoinedAt)
}

func TestUpgradeIsIdempotent(t *testing.T) {
	svc, _, log := newTestService(t, 0)
	ctx := context.Background()

	member, err := svc.CreateFreeMember(ctx, "a@b.com")
	require.NoError(t, err)

	first, err := svc.UpgradeToPremium(ctx, member.ID)
	require.NoError(t, err)
	second, err := svc.UpgradeToPremium(ctx, member.ID)
	require.NoError(t, err)

	assert.Equal(t, access.TierPremium, second.Tier)
	// The second call is a no-op: same refs, no second charge recorded.
	assert.Equal(t, *first.CustomerRef, *second.CustomerRef)

	events, err := log.Load(ctx, member.ID, 0, 0)
	require.NoError(t, err)
	upgrades := 0
	for _, e := range events {
		if e.EventType == "MemberUpgraded" {
			upgrades++
		}
	}
	assert.Equal(t, 1, upgrades)
}

func TestUpgradeUnknownMember(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	_, err := svc.UpgradeToPremium(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestCancelRestoresFreeTier(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	member, err := svc.CreateFreeMember(ctx, "a@b.com")
	require.NoError(t, err)

	_, err = svc.UpgradeToPremium(ctx, member.ID)
	require.NoError(t, err)

	cancelled, err := svc.CancelSubscription(ctx, member.ID)
	require.NoError(t, err)

	assert.Equal(t, access.TierFree, cancelled.Tier)
	assert.Nil(t, cancelled.CustomerRef)
	assert.Nil(t, cancelled.SubscriptionRef)
}

func TestCancelFreeMemberIsNoop(t *testing.T) {
	svc, _, log := newTestService(t, 0)
	ctx := context.Background()

	member, err := svc.CreateFreeMember(ctx, "a@b.com")
	require.NoError(t, err)

	cancelled, err := svc.CancelSubscription(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, access.TierFree, cancelled.Tier)

	version, err := log.CurrentVersion(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, version, "no-op cancel must not record a transition")
}

func TestCancelUnknownMember(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	_, err := svc.CancelSubscription(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestDeclinedChargeLeavesMemberFree(t *testing.T) {
	svc, gateway, _ := newTestService(t, 0)
	ctx := context.Background()

	member, err := svc.CreateFreeMember(ctx, "a@b.com")
	require.NoError(t, err)

	gateway.DeclineNext()
	_, err = svc.UpgradeToPremium(ctx, member.ID)
	assert.ErrorIs(t, err, payments.ErrGatewayDeclined)

	got, err := svc.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, access.TierFree, got.Tier)
	assert.Nil(t, got.CustomerRef)
	assert.Nil(t, got.SubscriptionRef)

	// A retry after the decline succeeds.
	upgraded, err := svc.UpgradeToPremium(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, access.TierPremium, upgraded.Tier)
}

func TestCancelledUpgradeLeavesPriorTier(t *testing.T) {
	svc, _, _ := newTestService(t, 200*time.Millisecond)
	ctx := context.Background()

	member, err := svc.CreateFreeMember(ctx, "a@b.com")
	require.NoError(t, err)

	upgradeCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()

	_, err = svc.UpgradeToPremium(upgradeCtx, member.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	got, err := svc.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, access.TierFree, got.Tier)
}

func TestConcurrentUpgradesChargeOnce(t *testing.T) {
	svc, _, log := newTestService(t, 10*time.Millisecond)
	ctx := context.Background()

	member, err := svc.CreateFreeMember(ctx, "a@b.com")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpgradeToPremium(ctx, member.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, access.TierPremium, got.Tier)
	require.NotNil(t, got.CustomerRef)

	events, err := log.Load(ctx, member.ID, 0, 0)
	require.NoError(t, err)
	upgrades := 0
	for _, e := range events {
		if e.EventType == "MemberUpgraded" {
			upgrades++
		}
	}
	assert.Equal(t, 1, upgrades, "losing writers must observe the first upgrade, not repeat it")
}

func TestSignupRateLimit(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateFreeMember(ctx, "a@b.com")
		require.NoError(t, err)
	}

	_, err := svc.CreateFreeMember(ctx, "a@b.com")
	assert.ErrorIs(t, err, ErrRateLimited)
}
