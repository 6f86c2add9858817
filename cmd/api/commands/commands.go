package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	httpHandlers "github.com/notehub/core/internal/adapters/http"
	"github.com/notehub/core/internal/adapters/push"
	"github.com/notehub/core/internal/adapters/repository"
	"github.com/notehub/core/internal/application/notifier"
	"github.com/notehub/core/internal/application/services"
	"github.com/notehub/core/internal/infrastructure/config"
	"github.com/notehub/core/internal/infrastructure/database"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/infrastructure/scheduler"
	"github.com/notehub/core/internal/infrastructure/server"
	"github.com/notehub/core/internal/security"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the NoteHub API server",
		Long:  "Start the NoteHub API server together with the due-note dispatch scheduler",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewDispatchCommand creates the dispatch command
func NewDispatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Run one due-note notification dispatch tick",
		Run: func(cmd *cobra.Command, args []string) {
			runDispatchOnce()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print NoteHub version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("NoteHub Core v1.0.0")
		},
	}
}

// wiring bundles the constructed application graph.
type wiring struct {
	cfg        *config.Config
	log        *logger.Logger
	db         *database.DB
	registry   *prometheus.Registry
	dispatcher *notifier.Dispatcher
	serverDeps server.Deps
}

func buildWiring() (*wiring, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	noteRepo := repository.NewNoteRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)

	hasher := security.NewPasswordHasher()

	noteService := services.NewNoteService(noteRepo, appLogger)
	userService := services.NewUserService(userRepo, hasher, appLogger)
	authService := services.NewAuthService(userService, cfg.Auth, appLogger)
	healthService := services.NewHealthService(noteService, cfg.Health.ProbeUserID, appLogger)

	registry := prometheus.NewRegistry()
	metrics := notifier.NewMetrics(registry)

	sender := push.NewClient(cfg.Push)
	dispatcher := notifier.NewDispatcher(noteService, sender, cfg.Push, metrics, appLogger)

	noteHandler := httpHandlers.NewNoteHandler(noteService, appLogger)
	authHandler := httpHandlers.NewAuthHandler(userService, authService, cfg.Auth, appLogger)

	return &wiring{
		cfg:        cfg,
		log:        appLogger,
		db:         db,
		registry:   registry,
		dispatcher: dispatcher,
		serverDeps: server.Deps{
			NoteHandler:   noteHandler,
			AuthHandler:   authHandler,
			AuthService:   authService,
			HealthService: healthService,
			Registry:      registry,
		},
	}, nil
}

func runServer() {
	w, err := buildWiring()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer w.db.Close()
	defer w.log.Close()

	srv, err := server.New(w.cfg, w.db, w.serverDeps, w.log)
	if err != nil {
		w.log.Fatal("Failed to initialize server", "error", err)
	}

	sched := scheduler.New(w.dispatcher, w.cfg.Push.Interval, w.log)
	sched.Start()
	defer sched.Stop()

	go func() {
		w.log.Info("Starting NoteHub API server",
			"port", w.cfg.Server.Port,
			"environment", w.cfg.App.Environment,
		)
		if err := srv.Start(fmt.Sprintf(":%d", w.cfg.Server.Port)); err != nil {
			w.log.Error("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		w.log.Error("Graceful shutdown failed", "error", err)
	}
}

func runDispatchOnce() {
	w, err := buildWiring()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer w.db.Close()
	defer w.log.Close()

	w.dispatcher.Run(context.Background())
}

func runMigration(direction string) {
	m := newMigrator()

	var err error
	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	m := newMigrator()

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func newMigrator() *migrate.Migrate {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	return m
}
