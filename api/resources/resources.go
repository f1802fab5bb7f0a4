// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/hubservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Home        *HomeHandlers
	Buildings   *BuildingHandlers
	Rooms       *RoomHandlers
	Sensors     *SensorHandlers
	Auth        *AuthHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Home:      &HomeHandlers{hubservice: svc},
		Buildings: &BuildingHandlers{hubservice: svc},
		Rooms:     &RoomHandlers{hubservice: svc},
		Sensors:   &SensorHandlers{hubservice: svc},
		Auth:      &AuthHandlers{hubservice: svc},
		HealthCheck: func(w http.ResponseWriter, r *http.Request) {
			respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// listParams are the query parameters accepted by the list endpoints.
type listParams struct {
	Limit int `schema:"limit"`
}

func decodeListParams(r *http.Request, defaultLimit int) listParams {
	params := listParams{Limit: defaultLimit}
	if err := queryDecoder.Decode(&params, r.URL.Query()); err != nil || params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	return params
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithJSON(w, apiErr.Code, apiErr)
		return
	}
	respondWithJSON(w, http.StatusInternalServerError, errors.NewInternalError("unexpected error", err))
}
