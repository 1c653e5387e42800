// internal/forum/implementation.go
package forum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"memberhub/pkg/eventlog"
)

var (
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrReplyNotFound      = errors.New("reply not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// The forum taxonomy is static, not derived from data.
var categories = []string{
	"Career Development",
	"Leadership",
	"Business Skills",
	"Personal Development",
	"Interview Skills",
	"Professional Skills",
	"Marketing",
	"Mentorship",
}

// service implements the Service interface. A single mutex guards the
// maps so every reply create/delete adjusts the owning discussion's
// reply count in the same critical section; the count can never drift
// from the live reply set.
type service struct {
	mu              sync.Mutex
	discussions     map[uuid.UUID]Discussion
	discussionOrder []uuid.UUID
	replies         map[uuid.UUID]Reply
	replyOrder      map[uuid.UUID][]uuid.UUID // discussion id -> reply ids, insertion order

	eventLog eventlog.Log
	latency  time.Duration
	now      func() time.Time
	tracer   trace.Tracer
}

// NewService creates an empty forum catalog.
func NewService(log eventlog.Log, latency time.Duration) Service {
	return &service{
		discussions: make(map[uuid.UUID]Discussion),
		replies:     make(map[uuid.UUID]Reply),
		replyOrder:  make(map[uuid.UUID][]uuid.UUID),
		eventLog:    log,
		latency:     latency,
		now:         time.Now,
		tracer:      otel.Tracer("memberhub/forum"),
	}
}

func (s *service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ListDiscussions returns all discussions, pinned threads first, each
// group ordered by most recent update. Equal timestamps keep creation
// order.
func (s *service) ListDiscussions(ctx context.Context) ([]Discussion, error) {
	ctx, span := s.tracer.Start(ctx, "forum.list_discussions")
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	discussions := make([]Discussion, 0, len(s.discussions))
	for _, id := range s.discussionOrder {
		discussions = append(discussions, s.discussions[id])
	}
	s.mu.Unlock()

	sortDiscussions(discussions)

	span.SetAttributes(attribute.Int("discussions.count", len(discussions)))
	return discussions, nil
}

// ListDiscussionsByCategory returns the discussions of one category in
// the same order as ListDiscussions.
func (s *service) ListDiscussionsByCategory(ctx context.Context, category string) ([]Discussion, error) {
	all, err := s.ListDiscussions(ctx)
	if err != nil {
		return nil, err
	}

	var discussions []Discussion
	for _, d := range all {
		if d.Category == category {
			discussions = append(discussions, d)
		}
	}
	return discussions, nil
}

func sortDiscussions(discussions []Discussion) {
	sort.SliceStable(discussions, func(i, j int) bool {
		if discussions[i].IsPinned != discussions[j].IsPinned {
			return discussions[i].IsPinned
		}
		return discussions[i].UpdatedAt.After(discussions[j].UpdatedAt)
	})
}

// GetDiscussion returns a single discussion.
func (s *service) GetDiscussion(ctx context.Context, id uuid.UUID) (*Discussion, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	discussion, ok := s.discussions[id]
	if !ok {
		return nil, ErrDiscussionNotFound
	}
	return &discussion, nil
}

// CreateDiscussion opens a new thread.
func (s *service) CreateDiscussion(ctx context.Context, data NewDiscussion) (*Discussion, error) {
	ctx, span := s.tracer.Start(ctx, "forum.create_discussion")
	defer span.End()

	if data.Title == "" || data.Content == "" || data.Category == "" {
		return nil, ErrInvalidInput
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	discussion := Discussion{
		ID:              uuid.New(),
		Title:           data.Title,
		Content:         data.Content,
		Category:        data.Category,
		Author:          data.Author,
		AuthorAvatarRef: data.AuthorAvatarRef,
		IsPinned:        data.IsPinned,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}

	eventData := DiscussionCreatedEvent{
		ID:       discussion.ID,
		Title:    discussion.Title,
		Category: discussion.Category,
		Author:   discussion.Author,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendEvent(ctx, discussion.ID, 0, "DiscussionCreated", eventData); err != nil {
		return nil, err
	}

	s.discussions[discussion.ID] = discussion
	s.discussionOrder = append(s.discussionOrder, discussion.ID)

	span.SetAttributes(attribute.String("discussion.id", discussion.ID.String()))
	return &discussion, nil
}

// UpdateDiscussion applies a partial update and advances updatedAt.
// Set fields must be non-empty.
func (s *service) UpdateDiscussion(ctx context.Context, id uuid.UUID, patch DiscussionPatch) (*Discussion, error) {
	ctx, span := s.tracer.Start(ctx, "forum.update_discussion",
		trace.WithAttributes(attribute.String("discussion.id", id.String())),
	)
	defer span.End()

	for _, field := range []*string{patch.Title, patch.Content, patch.Category} {
		if field != nil && *field == "" {
			return nil, ErrInvalidInput
		}
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	discussion, ok := s.discussions[id]
	if !ok {
		return nil, ErrDiscussionNotFound
	}

	if err := s.appendEvent(ctx, id, discussion.Version, "DiscussionUpdated", DiscussionUpdatedEvent{ID: id}); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		discussion.Title = *patch.Title
	}
	if patch.Content != nil {
		discussion.Content = *patch.Content
	}
	if patch.Category != nil {
		discussion.Category = *patch.Category
	}
	discussion.UpdatedAt = s.now().UTC()
	discussion.Version++
	s.discussions[id] = discussion

	return &discussion, nil
}

// DeleteDiscussion removes a thread and every reply referencing it as
// one atomic operation.
func (s *service) DeleteDiscussion(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "forum.delete_discussion",
		trace.WithAttributes(attribute.String("discussion.id", id.String())),
	)
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	discussion, ok := s.discussions[id]
	if !ok {
		return ErrDiscussionNotFound
	}

	removed := len(s.replyOrder[id])
	eventData := DiscussionDeletedEvent{ID: id, RepliesRemoved: removed}
	if err := s.appendEvent(ctx, id, discussion.Version, "DiscussionDeleted", eventData); err != nil {
		return err
	}

	for _, replyID := range s.replyOrder[id] {
		delete(s.replies, replyID)
	}
	delete(s.replyOrder, id)
	delete(s.discussions, id)
	for i, orderedID := range s.discussionOrder {
		if orderedID == id {
			s.discussionOrder = append(s.discussionOrder[:i], s.discussionOrder[i+1:]...)
			break
		}
	}

	span.SetAttributes(attribute.Int("replies.removed", removed))
	return nil
}

// ListReplies returns a discussion's replies oldest first.
func (s *service) ListReplies(ctx context.Context, discussionID uuid.UUID) ([]Reply, error) {
	ctx, span := s.tracer.Start(ctx, "forum.list_replies",
		trace.WithAttributes(attribute.String("discussion.id", discussionID.String())),
	)
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.discussions[discussionID]; !ok {
		return nil, ErrDiscussionNotFound
	}

	replies := make([]Reply, 0, len(s.replyOrder[discussionID]))
	for _, replyID := range s.replyOrder[discussionID] {
		replies = append(replies, s.replies[replyID])
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	span.SetAttributes(attribute.Int("replies.count", len(replies)))
	return replies, nil
}

// CreateReply appends a reply and, in the same critical section,
// increments the owning discussion's reply count and advances its
// updatedAt.
func (s *service) CreateReply(ctx context.Context, discussionID uuid.UUID, data NewReply) (*Reply, error) {
	ctx, span := s.tracer.Start(ctx, "forum.create_reply",
		trace.WithAttributes(attribute.String("discussion.id", discussionID.String())),
	)
	defer span.End()

	if data.Content == "" {
		return nil, ErrInvalidInput
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	discussion, ok := s.discussions[discussionID]
	if !ok {
		return nil, ErrDiscussionNotFound
	}

	now := s.now().UTC()
	reply := Reply{
		ID:              uuid.New(),
		DiscussionID:    discussionID,
		Content:         data.Content,
		Author:          data.Author,
		AuthorAvatarRef: data.AuthorAvatarRef,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	eventData := ReplyCreatedEvent{
		ReplyID:      reply.ID,
		DiscussionID: discussionID,
		Author:       reply.Author,
	}
	if err := s.appendEvent(ctx, discussionID, discussion.Version, "ReplyCreated", eventData); err != nil {
		return nil, err
	}

	s.replies[reply.ID] = reply
	s.replyOrder[discussionID] = append(s.replyOrder[discussionID], reply.ID)

	discussion.ReplyCount++
	discussion.UpdatedAt = now
	discussion.Version++
	s.discussions[discussionID] = discussion

	span.SetAttributes(attribute.String("reply.id", reply.ID.String()))
	return &reply, nil
}

// UpdateReply replaces a reply's content and advances its updatedAt.
func (s *service) UpdateReply(ctx context.Context, id uuid.UUID, content string) (*Reply, error) {
	ctx, span := s.tracer.Start(ctx, "forum.update_reply",
		trace.WithAttributes(attribute.String("reply.id", id.String())),
	)
	defer span.End()

	if content == "" {
		return nil, ErrInvalidInput
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply, ok := s.replies[id]
	if !ok {
		return nil, ErrReplyNotFound
	}

	reply.Content = content
	reply.UpdatedAt = s.now().UTC()
	s.replies[id] = reply

	return &reply, nil
}

// DeleteReply removes a reply and decrements the owning discussion's
// reply count in the same critical section.
func (s *service) DeleteReply(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "forum.delete_reply",
		trace.WithAttributes(attribute.String("reply.id", id.String())),
	)
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply, ok := s.replies[id]
	if !ok {
		return ErrReplyNotFound
	}

	discussion, ok := s.discussions[reply.DiscussionID]
	if !ok {
		// Cascade delete removes replies with their discussion, so an
		// orphaned reply indicates a bug rather than a race.
		delete(s.replies, id)
		return nil
	}

	eventData := ReplyDeletedEvent{ReplyID: id, DiscussionID: reply.DiscussionID}
	if err := s.appendEvent(ctx, reply.DiscussionID, discussion.Version, "ReplyDeleted", eventData); err != nil {
		return err
	}

	delete(s.replies, id)
	order := s.replyOrder[reply.DiscussionID]
	for i, replyID := range order {
		if replyID == id {
			s.replyOrder[reply.DiscussionID] = append(order[:i], order[i+1:]...)
			break
		}
	}

	if discussion.ReplyCount > 0 {
		discussion.ReplyCount--
	}
	discussion.UpdatedAt = s.now().UTC()
	discussion.Version++
	s.discussions[reply.DiscussionID] = discussion

	return nil
}

// Categories returns the fixed forum taxonomy.
func (s *service) Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

func (s *service) appendEvent(ctx context.Context, discussionID uuid.UUID, expectedVersion int, eventType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventlog.Event{
		EventType: eventType,
		EventData: jsonData,
	}

	if err := s.eventLog.Append(ctx, discussionID, "discussion", expectedVersion, []eventlog.Event{event}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}
