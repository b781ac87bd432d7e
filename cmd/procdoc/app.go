package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/0xthiagomartins/rpa-analyst-sub000/backup"
	"github.com/0xthiagomartins/rpa-analyst-sub000/config"
	"github.com/0xthiagomartins/rpa-analyst-sub000/flags"
	"github.com/0xthiagomartins/rpa-analyst-sub000/migration"
	"github.com/0xthiagomartins/rpa-analyst-sub000/store"
)

// App wires the migration pipeline together: NATS connection, stores,
// flag registry, and orchestrator.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// NATS
	embeddedServer *server.Server
	natsConn       *nats.Conn
	js             jetstream.JetStream

	// Pipeline
	records      *store.Store
	backups      *backup.Store
	flags        *flags.Registry
	orchestrator *migration.Orchestrator
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{cfg: cfg, logger: logger}
}

// Start initializes and starts all components.
func (a *App) Start(ctx context.Context) error {
	if err := a.startNATS(); err != nil {
		return fmt.Errorf("start NATS: %w", err)
	}

	records, err := store.New(ctx, a.js)
	if err != nil {
		return fmt.Errorf("initialize record store: %w", err)
	}
	a.records = records

	backups, err := backup.New(ctx, a.js)
	if err != nil {
		return fmt.Errorf("initialize backup store: %w", err)
	}
	a.backups = backups

	registry, err := flags.NewRegistry(ctx, a.js, a.logger)
	if err != nil {
		return fmt.Errorf("initialize flag registry: %w", err)
	}
	a.flags = registry

	a.orchestrator = migration.New(records, backups, a.logger)

	a.logger.Debug("pipeline components initialized")
	return nil
}

func (a *App) startNATS() error {
	if a.cfg.NATS.URL != "" && !a.cfg.NATS.Embedded {
		// Connect to external NATS
		a.logger.Info("connecting to NATS", slog.String("url", a.cfg.NATS.URL))
		conn, err := nats.Connect(a.cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		a.natsConn = conn
	} else {
		// Start embedded NATS server
		a.logger.Debug("starting embedded NATS server",
			slog.String("store_dir", a.cfg.NATS.StoreDir))
		opts := &server.Options{
			Port:      -1, // Random available port
			JetStream: true,
			StoreDir:  a.cfg.NATS.StoreDir,
			NoLog:     true,
			NoSigs:    true,
		}

		ns, err := server.NewServer(opts)
		if err != nil {
			return fmt.Errorf("create embedded NATS server: %w", err)
		}

		go ns.Start()

		// Wait for server to be ready
		if !ns.ReadyForConnections(5 * time.Second) {
			ns.Shutdown()
			return fmt.Errorf("embedded NATS server failed to start")
		}

		a.embeddedServer = ns

		conn, err := nats.Connect(ns.ClientURL())
		if err != nil {
			ns.Shutdown()
			return fmt.Errorf("connect to embedded NATS: %w", err)
		}
		a.natsConn = conn
	}

	js, err := jetstream.New(a.natsConn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	a.js = js

	return nil
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() {
	if a.natsConn != nil {
		a.natsConn.Drain()
		a.natsConn.Close()
	}

	if a.embeddedServer != nil {
		a.embeddedServer.Shutdown()
		a.embeddedServer.WaitForShutdown()
	}
}
