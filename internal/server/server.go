package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/gavelgames/gavel/internal/api/ws"
	"github.com/gavelgames/gavel/internal/config"
	"github.com/gavelgames/gavel/internal/courtroom"
	"github.com/gavelgames/gavel/internal/server/middleware"
	"github.com/gavelgames/gavel/internal/sim"
	"github.com/gavelgames/gavel/internal/store/postgres"
	redisstore "github.com/gavelgames/gavel/internal/store/redis"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	manager    *courtroom.Manager
	pubsub     *redisstore.PubSub
	wsHub      *ws.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired. ctx bounds the lifetime of
// background middleware cleanup goroutines.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, pubsub *redisstore.PubSub, manager *courtroom.Manager, simClient *sim.Client) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	hub := ws.NewHub(pubsub)

	s := &Server{
		router:  router,
		store:   store,
		manager: manager,
		pubsub:  pubsub,
		wsHub:   hub,
		cfg:     cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Unauthenticated group for starting sessions and browsing verdicts.
	// 2. Ticket-authenticated group for everything inside a live session.
	router.Route("/api/v1", func(r chi.Router) {
		// Session creation and the public verdict archive. Rate limited per
		// IP because no ticket exists yet at this point.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, 10, 20))

			publicConfig := huma.DefaultConfig("Gavel Public API", "1.0.0")
			publicConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			publicAPI := humachi.New(r, publicConfig)
			registerPublicRoutes(publicAPI, manager, store, cfg)
		})

		// Live session routes. The ticket binds each caller to one session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionTicket(cfg.Ticket.Secret))
			r.Use(middleware.RateLimit(ctx, 5, 10))

			apiConfig := huma.DefaultConfig("Gavel API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			api := humachi.New(r, apiConfig)
			registerSessionRoutes(api, manager, simClient)
		})
	})

	// WebSocket routes. Tickets may arrive via query param here since
	// browsers cannot set headers on WebSocket upgrades.
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.SessionTicket(cfg.Ticket.Secret))
		registerWSRoutes(r, hub)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
