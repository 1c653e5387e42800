// internal/access/access.go
package access

// Membership and resource tiers. A resource is either a content item
// carrying its own tier or the forum subsystem as a whole.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// CanAccess reports whether a member of the given tier may view a
// resource of the given tier. Free resources are visible to everyone;
// premium resources require a premium membership. An unrecognized
// member tier is treated as free.
func CanAccess(memberTier, resourceTier string) bool {
	if resourceTier != TierPremium {
		return true
	}
	return memberTier == TierPremium
}

// CanEnterForum reports whether a member of the given tier may enter
// the forum. Unlike content, the forum has no free tier: non-premium
// members are denied entry entirely.
func CanEnterForum(memberTier string) bool {
	return memberTier == TierPremium
}
