package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"todolists/application"
	"todolists/database"
	"todolists/domain/contracts"
	"todolists/infrastructure/config"
	infrafactories "todolists/infrastructure/factories"
	"todolists/infrastructure/serialization"
	"todolists/infrastructure/sessions"
	"todolists/interfaces/web/handlers"
	"todolists/interfaces/web/presenters"
	templates "todolists/interfaces/web/templates"
	"todolists/logging"
	"todolists/platform/events"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	TodoService *application.TodoService
	EventBus    *events.TodoEventBus
	Activity    *events.ActivityEventHandlers
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	TodoPresenter *presenters.TodoPresenter

	TodoHandlers   *handlers.TodoHandlers
	SystemHandlers *handlers.SystemHandlers
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB     *database.Database // nil when sessions are kept in memory
	Logger *logging.Logger

	// Sessions
	SessionRepo contracts.SessionRepository
	Sessions    *sessions.Manager

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"session_store", cfg.Session.Store,
		"db_path", cfg.Database.Path,
	)

	return logger
}

// initializeDatabase opens the sqlite database when the session store needs one.
func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) (*database.Database, error) {
	if !infrafactories.NeedsDatabase(cfg.Session) {
		logger.Info("Session store is in memory, skipping database")
		return nil, nil
	}
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// buildSessionLayer creates the session repository and the manager that wraps it.
func buildSessionLayer(cfg *config.AppConfig, db *database.Database) (contracts.SessionRepository, *sessions.Manager, error) {
	serializer, err := serialization.NewSessionSerializer()
	if err != nil {
		return nil, nil, err
	}

	repo, err := infrafactories.NewSessionRepositoryFactory(serializer).Create(cfg.Session, db)
	if err != nil {
		return nil, nil, err
	}
	return repo, sessions.NewManager(repo, cfg.Session), nil
}

// buildApplicationServices creates application services with dependency injection.
func buildApplicationServices() *ApplicationServices {
	eventBus := events.NewTodoEventBus()

	activity := events.NewActivityEventHandlers()
	activity.RegisterHandlers(eventBus)

	return &ApplicationServices{
		TodoService: application.NewTodoService(eventBus),
		EventBus:    eventBus,
		Activity:    activity,
	}
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(services *ApplicationServices, db *database.Database, repo contracts.SessionRepository) *PresentationLayer {
	todoPresenter := presenters.NewTodoPresenter()

	var dbHealth handlers.DatabaseHealth
	if db != nil {
		dbHealth = db
	}
	stats, _ := repo.(contracts.SessionStatsReader)

	return &PresentationLayer{
		TodoPresenter:  todoPresenter,
		TodoHandlers:   handlers.NewTodoHandlers(services.TodoService, todoPresenter),
		SystemHandlers: handlers.NewSystemHandlers(dbHealth, stats, services.Activity),
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(cfg *config.AppConfig, db *database.Database, logger *logging.Logger) (*Dependencies, error) {
	repo, manager, err := buildSessionLayer(cfg, db)
	if err != nil {
		return nil, err
	}

	services := buildApplicationServices()
	presentation := buildPresentationLayer(services, db, repo)

	return &Dependencies{
		DB:           db,
		Logger:       logger,
		SessionRepo:  repo,
		Sessions:     manager,
		Services:     services,
		Presentation: presentation,
	}, nil
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// Static assets
	mountStaticAssets(r)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Main application routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.Middleware)
		setupApplicationRoutes(r, deps)
	})

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("todolists", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func mountStaticAssets(r chi.Router) {
	sub, _ := fs.Sub(templates.FS, "assets")
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))
}

func setupSystemRoutes(r chi.Router, deps *Dependencies) {
	r.Get("/health", deps.Presentation.SystemHandlers.Health)
}

func setupApplicationRoutes(r chi.Router, deps *Dependencies) {
	h := deps.Presentation.TodoHandlers

	r.Get("/", h.Home)

	// Lists
	r.Get("/lists", h.Lists)
	r.Get("/lists/new", h.NewList)
	r.Post("/lists", h.CreateList)
	r.Get("/lists/{list_id}", h.ShowList)
	r.Get("/lists/{list_id}/edit", h.EditList)
	r.Post("/lists/{list_id}", h.UpdateList)
	r.Post("/lists/{list_id}/destroy", h.DeleteList)
	r.Post("/lists/{list_id}/complete_all", h.CompleteAll)

	// Todos
	r.Post("/lists/{list_id}/todos", h.AddTodo)
	r.Post("/lists/{list_id}/todos/{todo_id}", h.ToggleTodo)
	r.Post("/lists/{list_id}/todos/{todo_id}/destroy", h.DeleteTodo)
}

func startServer(appCtx context.Context, appCancel context.CancelFunc, router *chi.Mux, addr string, logger *logging.Logger, deps *Dependencies) error {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	prunerDone := deps.Sessions.StartPruner(appCtx)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// Cancel app-wide context first to stop background work
		logger.Info("Cancelling app context...")
		appCancel()
		<-prunerDone

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}

		// Let in-flight activity handlers finish logging
		deps.Services.EventBus.Wait()
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		return err
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
	return nil
}
