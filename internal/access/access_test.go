package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name         string
		memberTier   string
		resourceTier string
		want         bool
	}{
		{"premium member, premium resource", TierPremium, TierPremium, true},
		{"premium member, free resource", TierPremium, TierFree, true},
		{"free member, free resource", TierFree, TierFree, true},
		{"free member, premium resource", TierFree, TierPremium, false},
		{"unknown member tier, premium resource", "trial", TierPremium, false},
		{"unknown member tier, free resource", "trial", TierFree, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.memberTier, tt.resourceTier))
		})
	}
}

func TestCanEnterForum(t *testing.T) {
	assert.True(t, CanEnterForum(TierPremium))
	assert.False(t, CanEnterForum(TierFree))
	assert.False(t, CanEnterForum(""))
	assert.False(t, CanEnterForum("trial"))
}
