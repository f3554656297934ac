// Package cli is the interactive shell for field staff: a small REPL
// over the feature services, usable with or without connectivity.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/arogyahealth/arogya-go/internal/client/config"
	"github.com/arogyahealth/arogya-go/internal/client/connectivity"
	"github.com/arogyahealth/arogya-go/internal/client/db"
	"github.com/arogyahealth/arogya-go/internal/client/router"
	"github.com/arogyahealth/arogya-go/internal/client/services"
	"github.com/arogyahealth/arogya-go/internal/client/syncer"
	"github.com/arogyahealth/arogya-go/internal/client/transport"
	"github.com/arogyahealth/arogya-go/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the persistent stores, transport, connectivity watcher, sync
// engine and feature services together behind the REPL.
type App struct {
	config *config.Config
	logger logging.Logger

	repos  *db.Repositories
	hub    *connectivity.Hub
	prober *connectivity.Prober
	engine *syncer.Engine

	authService        services.AuthService
	eventService       services.EventService
	appointmentService services.AppointmentService
	agentService       services.AgentService

	reader *bufio.Reader
}

// NewApp builds the full client stack from cfg. The database is opened
// and migrated immediately; connectivity starts pessimistic (offline)
// until the first probe says otherwise.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repos, err := db.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := transport.NewClient(cfg.APIBaseURL, repos.Metadata, nil, logger)

	hub := connectivity.NewHub(false)
	prober := connectivity.NewProber(hub, apiClient.Ping, cfg.OnlineCheckInterval, logger)
	engine := syncer.NewEngine(repos.Actions, apiClient, logger)

	rt := router.New(hub, apiClient, repos.Actions, repos.Cache, logger)

	return &App{
		config:             cfg,
		logger:             logger,
		repos:              repos,
		hub:                hub,
		prober:             prober,
		engine:             engine,
		authService:        services.NewAuthService(rt, repos.Metadata),
		eventService:       services.NewEventService(rt, cfg.EventQueueCap),
		appointmentService: services.NewAppointmentService(rt),
		agentService:       services.NewAgentService(rt),
		reader:             bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the connectivity watcher and sync engine in the background
// and hands control to the REPL. It returns when the user exits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.repos.Close()

	go a.prober.Run(ctx)
	go a.engine.Run(ctx, a.hub)

	a.Root(ctx)
}

func (a *App) modeLabel() string {
	if a.hub.Online() {
		return "online"
	}
	return "offline"
}
