package main

import (
	"context"
	"encoding/json"
	"expvar"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"halldesk/hall-service/internal/config"
	"halldesk/hall-service/internal/dashboard"
	"halldesk/hall-service/internal/httpapi"
	"halldesk/hall-service/internal/hub"
	"halldesk/hall-service/internal/mention"
	"halldesk/hall-service/internal/store/memory"
	"halldesk/hall-service/internal/store/postgres"
	"halldesk/hall-service/internal/telemetry"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type eventEnvelope struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("hall-service")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)
	issues := memory.NewIssueStore()
	builder := dashboard.NewBuilder(mention.LoadVocabulary(cfg.HeuristicsPath))
	handler := httpapi.NewHandler(store, issues, store, builder, httpapi.Options{})
	h := hub.New()
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:    cfg.RateLimitPerMinute,
		IPBurst:        cfg.RateLimitBurst,
		TokenPerMinute: cfg.HallRateLimitPerMinute,
		TokenBurst:     cfg.HallRateLimitBurst,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", expvar.Handler())

	sockjsHandler := sockjs.NewHandler("/realtime", sockjs.DefaultOptions, func(session sockjs.Session) {
		token := tokenFromSockJS(session.Request())
		if token == "" {
			_ = session.Close(4001, "missing access token")
			return
		}
		coordinator, err := store.GetCoordinator(context.Background(), token)
		if err != nil {
			_ = session.Close(4002, "access denied")
			return
		}

		client := &hub.Client{
			ID:   uuid.NewString(),
			Send: make(chan []byte, 16),
			Subscription: hub.Subscription{
				EventID: coordinator.EventID,
				Hall:    coordinator.Hall,
			},
		}
		h.Register(client)
		defer h.Unregister(client)

		go func() {
			for msg := range client.Send {
				_ = session.Send(string(msg))
			}
		}()

		for {
			msg, err := session.Recv()
			if err != nil {
				return
			}
			parsed, ok := hub.ParseSubscribe([]byte(msg))
			if !ok {
				continue
			}
			if parsed.Action == "unsubscribe" {
				h.UpdateSubscription(client, hub.Subscription{EventID: coordinator.EventID, Hall: coordinator.Hall})
				continue
			}
			// Coordinators stay inside their own event; the hall may widen
			// to event-wide for an ops overview screen.
			h.UpdateSubscription(client, hub.Subscription{
				EventID: coordinator.EventID,
				Hall:    parsed.Hall,
			})
		}
	})
	mux.Handle("/realtime/", sockjsHandler)
	mux.Handle("/", httpapi.AuthMiddleware(store, handler.Routes()))

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(mux)), "hall-service")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("hall-service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	refreshRoster := func() {
		if cfg.EventID == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		registrants, err := store.ListRegistrants(ctx, cfg.EventID)
		if err != nil {
			log.Printf("roster refresh error: %v", err)
			return
		}
		builder.SetRoster(registrants, time.Now().UTC().Format(time.RFC3339))
		log.Printf("roster refreshed: %d registrants", len(registrants))
	}
	refreshRoster()

	go func() {
		if cfg.RosterInterval <= 0 {
			return
		}
		ticker := time.NewTicker(cfg.RosterInterval)
		defer ticker.Stop()
		for range ticker.C {
			refreshRoster()
		}
	}()

	// Poll the outbox and fan changes out to subscribed dashboards. The
	// offset is in-memory: a restart replays nothing, clients refetch on
	// reconnect anyway.
	go func() {
		if cfg.OutboxInterval <= 0 {
			cfg.OutboxInterval = time.Second
		}
		lastSeen := time.Now().UTC()
		var running int32
		ticker := time.NewTicker(cfg.OutboxInterval)
		defer ticker.Stop()
		for range ticker.C {
			if !atomic.CompareAndSwapInt32(&running, 0, 1) {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			events, err := store.ListOutboxEvents(ctx, lastSeen, cfg.OutboxBatchSize)
			cancel()
			if err != nil {
				log.Printf("outbox poll error: %v", err)
			} else {
				for _, event := range events {
					lastSeen = event.CreatedAt
					env := eventEnvelope{Type: event.Type, Payload: event.Payload, CreatedAt: event.CreatedAt}
					payload, _ := json.Marshal(env)
					h.Broadcast(payload, extractMeta(event.Payload))
				}
			}
			atomic.StoreInt32(&running, 0)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func extractMeta(payload []byte) hub.Subscription {
	var data struct {
		EventID string `json:"event_id"`
		Hall    string `json:"hall"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return hub.Subscription{}
	}
	return hub.Subscription{EventID: data.EventID, Hall: data.Hall}
}

func tokenFromSockJS(r *http.Request) string {
	if r == nil {
		return ""
	}
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
