// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/api"
	"github.com/roomsense/hub/api/middleware"
	"github.com/roomsense/hub/internal/config"
	"github.com/roomsense/hub/internal/hubservice"
	"github.com/roomsense/hub/internal/monitoring"
	"github.com/roomsense/hub/internal/store"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         store.Store
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
	}
}

// Start wires the service and begins listening for requests
func (s *Server) Start() error {
	db, err := openStore(s.config)
	if err != nil {
		return err
	}
	s.db = db

	s.hubservice = hubservice.New(db, hubservice.Options{
		ActivityWindow: time.Duration(s.config.Occupancy.ActivityWindowSeconds) * time.Second,
		JWTSecret:      s.config.Auth.JWTSecret,
		TokenTTL:       s.config.Auth.TokenTTL,
	})
	if err := s.hubservice.Validate(); err != nil {
		return err
	}

	s.monitoring = monitoring.NewService(monitoring.Config{
		LogLevel: s.config.Monitoring.LogLevel,
	})
	s.setupCleanupHandlers()

	router := api.NewRouter(s.hubservice,
		middleware.AuthConfig{JWTSecret: s.config.Auth.JWTSecret},
		middleware.RateLimitConfig{
			Addr:      s.config.Redis.Addr,
			Password:  s.config.Redis.Password,
			DB:        s.config.Redis.DB,
			PerMinute: s.config.Redis.IngestPerMinute,
		},
	)

	handler := handlers.RecoveryHandler()(handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Sensor-Token"}),
	)(router))

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      handlers.CombinedLoggingHandler(os.Stdout, handler),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if err := s.db.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing store: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupCleanupHandlers() {
	s.hubservice.Cleanup.OnCleanup("room.deleted", func(id string) {
		s.monitoring.RecordEvent("room_deletion", map[string]string{
			"room_id": id,
		})
	})
	s.hubservice.Cleanup.OnCleanup("sensors.deleted", func(id string) {
		s.monitoring.RecordEvent("sensor_deletion", map[string]string{
			"room_id": id,
		})
	})
	s.hubservice.Cleanup.OnCleanup("events.deleted", func(id string) {
		s.monitoring.RecordEvent("event_deletion", map[string]string{
			"room_id": id,
		})
	})
}

// openStore selects the durable backend, or the JSON-file mock when a
// mock path is configured.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Database.MockPath != "" {
		nuts.L.Infof("[Server] Using mock store at %s", cfg.Database.MockPath)
		return store.NewMemStore(cfg.Database.MockPath)
	}
	return store.NewSQLStore(store.SQLConfig{
		Host:     cfg.Database.Postgres.Host,
		Port:     cfg.Database.Postgres.Port,
		User:     cfg.Database.Postgres.User,
		Password: cfg.Database.Postgres.Password,
		DBName:   cfg.Database.Postgres.DBName,
		SSLMode:  cfg.Database.Postgres.SSLMode,
	}), nil
}
