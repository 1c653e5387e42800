// cmd/api/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"memberhub/internal/content"
	"memberhub/internal/forum"
	"memberhub/internal/membership"
	"memberhub/internal/payments"
	"memberhub/internal/session"
	"memberhub/pkg/eventlog"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	shutdownTracing, err := setupTracing(ctx, logger)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	var eventLog eventlog.Log = eventlog.NewMemoryLog()
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		eventLog = eventlog.NewPostgresLog(db)
		logger.Info("using postgres event log")
	}

	storeLatency := durationEnv("SIMULATED_LATENCY_MS", 0)
	gatewayLatency := durationEnv("GATEWAY_LATENCY_MS", 2000)
	sessionTTL := durationEnv("SESSION_TTL_MS", int((24 * time.Hour).Milliseconds()))

	gateway := payments.NewSimulatedGateway(gatewayLatency)
	sessions := session.NewManager(sessionTTL)

	memberSvc := membership.NewService(membership.NewStore(), gateway, eventLog)
	memberHandler := membership.NewHandler(memberSvc, sessions, logger)

	contentSvc := content.NewService(content.DefaultItems(), storeLatency)
	contentHandler := content.NewHandler(contentSvc, memberHandler)

	forumSvc := forum.NewService(eventLog, storeLatency)
	if err := forum.Seed(ctx, forumSvc); err != nil {
		log.Fatalf("Failed to seed forum: %v", err)
	}
	forumHandler := forum.NewHandler(forumSvc, memberHandler, logger)

	router := newRouter(memberHandler, contentHandler, forumHandler)

	port := getEnv("PORT", "8080")
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting memberhub API", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newRouter(members *membership.Handler, contentHandler *content.Handler, forumHandler *forum.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/signup", members.HandleSignup)
	r.Get("/me", members.HandleCurrentMember)
	r.Post("/logout", members.HandleLogout)
	r.Route("/members/{id}", func(r chi.Router) {
		r.Get("/", members.HandleGetMember)
		r.Post("/upgrade", members.HandleUpgrade)
		r.Post("/cancel", members.HandleCancel)
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

	return r
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultMillis int) time.Duration {
	raw := getEnv(key, strconv.Itoa(defaultMillis))
	millis, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return time.Duration(millis) * time.Millisecond
}
