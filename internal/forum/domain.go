// internal/forum/domain.go
package forum

import (
	"time"

	"github.com/google/uuid"
)

// Discussion represents a forum thread. ReplyCount is derived state
// and always equals the number of live replies referencing the
// discussion.
type Discussion struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Category        string    `json:"category"`
	Author          string    `json:"author"`
	AuthorAvatarRef string    `json:"author_avatar_ref,omitempty"`
	IsPinned        bool      `json:"is_pinned"`
	ReplyCount      int       `json:"reply_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

// Reply represents a single reply within a discussion. The reply
// references its owning discussion; deleting the discussion cascades
// to its replies.
type Reply struct {
	ID              uuid.UUID `json:"id"`
	DiscussionID    uuid.UUID `json:"discussion_id"`
	Content         string    `json:"content"`
	Author          string    `json:"author"`
	AuthorAvatarRef string    `json:"author_avatar_ref,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewDiscussion carries the caller-supplied fields for a new thread.
type NewDiscussion struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	Category        string `json:"category"`
	Author          string `json:"author"`
	AuthorAvatarRef string `json:"author_avatar_ref"`
	IsPinned        bool   `json:"is_pinned"`
}

// DiscussionPatch carries a partial update; nil fields are left as is.
type DiscussionPatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// NewReply carries the caller-supplied fields for a new reply.
type NewReply struct {
	Content         string `json:"content"`
	Author          string `json:"author"`
	AuthorAvatarRef string `json:"author_avatar_ref"`
}

// DiscussionCreatedEvent is recorded when a thread is opened.
type DiscussionCreatedEvent struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Author   string    `json:"author"`
}

// DiscussionUpdatedEvent is recorded when thread fields change.
type DiscussionUpdatedEvent struct {
	ID uuid.UUID `json:"id"`
}

// DiscussionDeletedEvent is recorded when a thread and its replies are
// removed.
type DiscussionDeletedEvent struct {
	ID             uuid.UUID `json:"id"`
	RepliesRemoved int       `json:"replies_removed"`
}

// ReplyCreatedEvent is recorded against the owning discussion.
type ReplyCreatedEvent struct {
	ReplyID      uuid.UUID `json:"reply_id"`
	DiscussionID uuid.UUID `json:"discussion_id"`
	Author       string    `json:"author"`
}

// ReplyDeletedEvent is recorded against the owning discussion.
type ReplyDeletedEvent struct {
	ReplyID      uuid.UUID `json:"reply_id"`
	DiscussionID uuid.UUID `json:"discussion_id"`
}
