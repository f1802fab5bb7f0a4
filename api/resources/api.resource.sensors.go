// FilePath: api/resources/api.resource.sensors.go
package resources

import (
	"encoding/json"
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/hubservice"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	hubservice *hubservice.HubService
}

type createSensorRequest struct {
	RoomID   int64  `json:"room_id"`
	DeviceID string `json:"device_id"`
}

type activityRequest struct {
	Token      string `json:"token"`
	Confidence int64  `json:"confidence"`
	Payload    string `json:"payload"`
}

// @Summary Provision a sensor
// @Description Create a sensor for a room; the private submission token is returned once
// @Tags sensors
// @Accept json
// @Produce json
// @Param sensor body createSensorRequest true "Sensor details"
// @Success 201 {object} store.Record
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /sensors [post]
// @Security BearerAuth
func (h *SensorHandlers) CreateSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req createSensorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	sensor, err := h.hubservice.CreateSensor(r.Context(), req.RoomID, req.DeviceID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sensor)
}

// @Summary Submit a motion event
// @Description Authenticated by the sensor's private token
// @Tags sensors
// @Accept json
// @Produce json
// @Param activity body activityRequest true "Motion event"
// @Success 201 {object} map[string]any
// @Failure 401 {object} errors.APIError
// @Router /sensors/activity [post]
func (h *SensorHandlers) RecordActivity(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	id, err := h.hubservice.RecordMotion(r.Context(), req.Token, req.Confidence, req.Payload)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]any{"flag": true, "id": id})
}
