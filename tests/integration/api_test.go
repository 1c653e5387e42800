// tests/integration/api_test.go
package integration

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberhub/internal/access"
	"memberhub/internal/clients"
	"memberhub/internal/content"
	"memberhub/internal/forum"
	"memberhub/internal/membership"
	"memberhub/internal/payments"
	"memberhub/internal/session"
	"memberhub/pkg/eventlog"
)

// newTestServer wires the full API the way cmd/api does, with zero
// simulated latency and an in-memory event log.
func newTestServer(t *testing.T) (*httptest.Server, *payments.SimulatedGateway) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	eventLog := eventlog.NewMemoryLog()
	gateway := payments.NewSimulatedGateway(0)
	sessions := session.NewManager(time.Hour)

	memberSvc := membership.NewService(membership.NewStore(), gateway, eventLog)
	memberHandler := membership.NewHandler(memberSvc, sessions, logger)

	contentSvc := content.NewService(content.DefaultItems(), 0)
	contentHandler := content.NewHandler(contentSvc, memberHandler)

	forumSvc := forum.NewService(eventLog, 0)
	require.NoError(t, forum.Seed(context.Background(), forumSvc))
	forumHandler := forum.NewHandler(forumSvc, memberHandler, logger)

	r := chi.NewRouter()
	r.Post("/signup", memberHandler.HandleSignup)
	r.Get("/me", memberHandler.HandleCurrentMember)
	r.Post("/logout", memberHandler.HandleLogout)
	r.Route("/members/{id}", func(r chi.Router) {
		r.Get("/", memberHandler.HandleGetMember)
		r.Post("/upgrade", memberHandler.HandleUpgrade)
		r.Post("/cancel", memberHandler.HandleCancel)
	})
	r.Route("/content", func(r chi.Router) {
		r.Get("/", contentHandler.HandleList)
		r.Get("/categories", contentHandler.HandleCategories)
		r.Get("/{id}", contentHandler.HandleGetItem)
	})
	r.Route("/forum", func(r chi.Router) {
		r.Use(forumHandler.RequirePremium)
		r.Get("/categories", forumHandler.HandleCategories)
		r.Route("/discussions", func(r chi.Router) {
			r.Get("/", forumHandler.HandleListDiscussions)
			r.Post("/", forumHandler.HandleCreateDiscussion)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", forumHandler.HandleGetDiscussion)
				r.Patch("/", forumHandler.HandleUpdateDiscussion)
				r.Delete("/", forumHandler.HandleDeleteDiscussion)
				r.Get("/replies", forumHandler.HandleListReplies)
				r.Post("/replies", forumHandler.HandleCreateReply)
			})
		})
		r.Route("/replies/{id}", func(r chi.Router) {
			r.Patch("/", forumHandler.HandleUpdateReply)
			r.Delete("/", forumHandler.HandleDeleteReply)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, gateway
}

func TestMembershipLifecycleFlow(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	mc := clients.NewMembershipClient(server.URL)

	// Sign up a free member and resolve the session.
	member, err := mc.Signup(ctx, "visitor@example.com")
	require.NoError(t, err)
	assert.Equal(t, access.TierFree, member.Tier)
	assert.Nil(t, member.CustomerRef)

	current, err := mc.CurrentMember(ctx)
	require.NoError(t, err)
	assert.Equal(t, member.ID, current.ID)

	// Free members can browse the catalog but not open premium items.
	cc := clients.NewContentClient(server.URL, mc.Token())
	items, err := cc.List(ctx, content.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, items)

	var premiumItem, freeItem *content.Item
	for i := range items {
		switch items[i].Tier {
		case access.TierPremium:
			premiumItem = &items[i]
		case access.TierFree:
			freeItem = &items[i]
		}
	}
	require.NotNil(t, premiumItem)
	require.NotNil(t, freeItem)

	_, err = cc.Get(ctx, freeItem.ID)
	require.NoError(t, err)

	_, err = cc.Get(ctx, premiumItem.ID)
	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	// The forum is closed to free members entirely.
	fc := clients.NewForumClient(server.URL, mc.Token())
	_, err = fc.ListDiscussions(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	// Upgrade to premium.
	upgraded, err := mc.Upgrade(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, access.TierPremium, upgraded.Tier)
	require.NotNil(t, upgraded.CustomerRef)
	require.NotNil(t, upgraded.SubscriptionRef)

	// Premium unlocks the item and the forum.
	_, err = cc.Get(ctx, premiumItem.ID)
	require.NoError(t, err)

	discussions, err := fc.ListDiscussions(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, discussions)
	assert.True(t, discussions[0].IsPinned)

	discussion, err := fc.CreateDiscussion(ctx, forum.NewDiscussion{
		Title:    "Hello from integration",
		Content:  "Testing end to end",
		Category: "Career Development",
	})
	require.NoError(t, err)
	assert.Equal(t, member.Email, discussion.Author, "author defaults to the session member")

	reply, err := fc.CreateReply(ctx, discussion.ID, forum.NewReply{Content: "First reply"})
	require.NoError(t, err)

	replies, err := fc.ListReplies(ctx, discussion.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)

	require.NoError(t, fc.DeleteReply(ctx, reply.ID))
	require.NoError(t, fc.DeleteDiscussion(ctx, discussion.ID))

	// Cancel drops back to free and locks the forum again.
	cancelled, err := mc.Cancel(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, access.TierFree, cancelled.Tier)
	assert.Nil(t, cancelled.CustomerRef)

	_, err = fc.ListDiscussions(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestDeclinedUpgradeOverAPI(t *testing.T) {
	server, gateway := newTestServer(t)
	ctx := context.Background()

	mc := clients.NewMembershipClient(server.URL)
	member, err := mc.Signup(ctx, "declined@example.com")
	require.NoError(t, err)

	gateway.DeclineNext()
	_, err = mc.Upgrade(ctx, member.ID)
	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)

	got, err := mc.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, access.TierFree, got.Tier)
}

func TestLogoutEndsSession(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	mc := clients.NewMembershipClient(server.URL)
	_, err := mc.Signup(ctx, "bye@example.com")
	require.NoError(t, err)

	require.NoError(t, mc.Logout(ctx))

	_, err = mc.CurrentMember(ctx)
	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
