// internal/forum/seed.go
package forum

import (
	"context"
	"fmt"
)

// Seed populates a fresh forum with a few starter threads so the board
// is not empty on first visit.
func Seed(ctx context.Context, svc Service) error {
	seeds := []struct {
		discussion NewDiscussion
		replies    []NewReply
	}{
		{
			discussion: NewDiscussion{
				Title:    "Welcome to the community",
				Content:  "Introduce yourself and tell us what you are working toward this year.",
				Category: "Mentorship",
				Author:   "Sarah Chen",
				IsPinned: true,
			},
			replies: []NewReply{
				{Content: "Excited to be here. Aiming for my first team lead role.", Author: "Marcus Webb"},
			},
		},
		{
			discussion: NewDiscussion{
				Title:    "How did you prepare for your last promotion?",
				Content:  "Looking for concrete steps that worked, not generic advice.",
				Category: "Career Development",
				Author:   "Priya Nair",
			},
			replies: []NewReply{
				{Content: "I kept a brag document and reviewed it with my manager monthly.", Author: "Sarah Chen"},
				{Content: "Volunteering for the cross-team migration gave me visibility.", Author: "Diego Alvarez"},
			},
		},
		{
			discussion: NewDiscussion{
				Title:    "Favorite resources on leading difficult conversations?",
				Content:  "Books, courses, anything that actually changed how you handle conflict.",
				Category: "Leadership",
				Author:   "Marcus Webb",
			},
		},
	}

	for _, seed := range seeds {
		discussion, err := svc.CreateDiscussion(ctx, seed.discussion)
		if err != nil {
			return fmt.Errorf("failed to seed discussion %q: %w", seed.discussion.Title, err)
		}
		for _, reply := range seed.replies {
			if _, err := svc.CreateReply(ctx, discussion.ID, reply); err != nil {
				return fmt.Errorf("failed to seed reply in %q: %w", seed.discussion.Title, err)
			}
		}
	}
	return nil
}
