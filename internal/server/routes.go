package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gavelgames/gavel/internal/api/v1"
	"github.com/gavelgames/gavel/internal/api/ws"
	"github.com/gavelgames/gavel/internal/config"
	"github.com/gavelgames/gavel/internal/courtroom"
	"github.com/gavelgames/gavel/internal/sim"
	"github.com/gavelgames/gavel/internal/store/postgres"
)

func registerPublicRoutes(api huma.API, manager *courtroom.Manager, store *postgres.Store, cfg *config.Config) {
	v1.RegisterStartRoute(api, manager, cfg.Ticket.Secret, cfg.Ticket.TTL)
	v1.RegisterVerdictRoutes(api, store)
}

func registerSessionRoutes(api huma.API, manager *courtroom.Manager, simClient *sim.Client) {
	v1.RegisterSessionRoutes(api, manager, simClient)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/session/{sessionID}", hub.ServeSession)
}
