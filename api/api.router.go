package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roomsense/hub/api/middleware"
	"github.com/roomsense/hub/api/resources"
	"github.com/roomsense/hub/internal/hubservice"
	"github.com/roomsense/hub/internal/models"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.AuthMiddleware
	ratelimit *middleware.IngestRateLimiter
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService, authConfig middleware.AuthConfig, rateConfig middleware.RateLimitConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAuthMiddleware(authConfig),
		ratelimit: middleware.NewIngestRateLimiter(rateConfig),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", r.resources.Auth.Login).Methods(http.MethodPost)

	// Home views
	api.HandleFunc("/home/cards", r.resources.Home.BuildingCards).Methods(http.MethodGet)
	api.HandleFunc("/home/recent", r.resources.Home.RecentSpaces).Methods(http.MethodGet)
	api.HandleFunc("/home/available", r.resources.Home.AvailableNow).Methods(http.MethodGet)

	// Sensor ingest, authenticated by the sensor token itself
	api.Handle("/sensors/activity",
		r.ratelimit.Limit(http.HandlerFunc(r.resources.Sensors.RecordActivity))).Methods(http.MethodPost)

	// Read-only entity routes
	api.HandleFunc("/buildings", r.resources.Buildings.ListBuildings).Methods(http.MethodGet)
	api.HandleFunc("/buildings/{id}", r.resources.Buildings.GetBuilding).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", r.resources.Rooms.GetRoom).Methods(http.MethodGet)

	// Admin routes
	admin := api.PathPrefix("").Subrouter()
	admin.Use(r.auth.Authenticate)
	admin.Use(r.auth.RequireRoles(models.RoleAdmin))

	admin.HandleFunc("/buildings", r.resources.Buildings.CreateBuilding).Methods(http.MethodPost)
	admin.HandleFunc("/buildings/{id}", r.resources.Buildings.UpdateBuilding).Methods(http.MethodPut)
	admin.HandleFunc("/buildings/{id}", r.resources.Buildings.DeleteBuilding).Methods(http.MethodDelete)
	admin.HandleFunc("/rooms", r.resources.Rooms.CreateRoom).Methods(http.MethodPost)
	admin.HandleFunc("/rooms/{id}", r.resources.Rooms.DeleteRoom).Methods(http.MethodDelete)
	admin.HandleFunc("/sensors", r.resources.Sensors.CreateSensor).Methods(http.MethodPost)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
