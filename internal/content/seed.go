// internal/content/seed.go
package content

import (
	"memberhub/internal/access"

	"github.com/google/uuid"
)

// DefaultItems returns the seed catalog served by a fresh deployment.
func DefaultItems() []Item {
	return []Item{
		{
			ID:              uuid.New(),
			Title:           "Building Your Personal Brand",
			Description:     "Learn how to craft a compelling professional identity that opens doors.",
			Category:        "Career Development",
			Type:            TypeVideo,
			Tier:            access.TierFree,
			DurationMinutes: 18,
			ImageRef:        "images/personal-brand.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "Resume Writing Essentials",
			Description:     "A quick guide to resumes that get past automated screening.",
			Category:        "Career Development",
			Type:            TypeArticle,
			Tier:            access.TierFree,
			DurationMinutes: 8,
			ImageRef:        "images/resume-essentials.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "Advanced Career Strategy",
			Description:     "A full course on negotiating promotions and planning senior moves.",
			Category:        "Career Development",
			Type:            TypeCourse,
			Tier:            access.TierPremium,
			DurationMinutes: 240,
			ImageRef:        "images/career-strategy.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "Leading Without Authority",
			Description:     "Influence teams and drive outcomes before you have the title.",
			Category:        "Leadership",
			Type:            TypeVideo,
			Tier:            access.TierPremium,
			DurationMinutes: 45,
			ImageRef:        "images/leading-without-authority.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "First-Time Manager Toolkit",
			Description:     "Everything you need for your first ninety days managing people.",
			Category:        "Leadership",
			Type:            TypeCourse,
			Tier:            access.TierPremium,
			DurationMinutes: 180,
			ImageRef:        "images/manager-toolkit.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "Reading a P&L",
			Description:     "Financial statements for non-finance professionals.",
			Category:        "Business Skills",
			Type:            TypeArticle,
			Tier:            access.TierFree,
			DurationMinutes: 12,
			ImageRef:        "images/reading-pnl.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "Negotiation Masterclass",
			Description:     "Practical frameworks for high-stakes business negotiation.",
			Category:        "Business Skills",
			Type:            TypeCourse,
			Tier:            access.TierPremium,
			DurationMinutes: 150,
			ImageRef:        "images/negotiation.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "Habits That Compound",
			Description:     "Small daily practices with outsized long-term returns.",
			Category:        "Personal Development",
			Type:            TypeVideo,
			Tier:            access.TierFree,
			DurationMinutes: 22,
			ImageRef:        "images/habits.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "Acing the Behavioral Interview",
			Description:     "Structure answers that showcase impact under pressure.",
			Category:        "Interview Skills",
			Type:            TypeVideo,
			Tier:            access.TierPremium,
			DurationMinutes: 35,
			ImageRef:        "images/behavioral-interview.jpg",
		},
		{
			ID:              uuid.New(),
			Title:           "Marketing Yourself Online",
			Description:     "Turn your public profiles into a career asset.",
			Category:        "Marketing",
			Type:            TypeArticle,
			Tier:            access.TierFree,
			DurationMinutes: 10,
			ImageRef:        "images/marketing-online.jpg",
		},
	}
}
