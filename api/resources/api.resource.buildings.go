// FilePath: api/resources/api.resource.buildings.go
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/hubservice"
	"github.com/roomsense/hub/internal/store"
)

// BuildingHandlers encapsulates the building-related HTTP handlers
type BuildingHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Create a new building
// @Tags buildings
// @Accept json
// @Produce json
// @Success 201 {object} map[string]int64
// @Failure 400 {object} errors.APIError
// @Router /buildings [post]
// @Security BearerAuth
func (h *BuildingHandlers) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var fields store.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	id, err := h.hubservice.CreateBuilding(r.Context(), fields)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// @Summary List buildings
// @Tags buildings
// @Produce json
// @Success 200 {array} store.Record
// @Router /buildings [get]
func (h *BuildingHandlers) ListBuildings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	buildings, err := h.hubservice.ListBuildings(r.Context())
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to list buildings", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, buildings)
}

// @Summary Building details
// @Description Building with its rooms and per-room availability
// @Tags buildings
// @Produce json
// @Param id path int true "Building ID"
// @Success 200 {object} store.Record
// @Failure 404 {object} errors.APIError
// @Router /buildings/{id} [get]
func (h *BuildingHandlers) GetBuilding(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	building, err := h.hubservice.Dashboard.BuildingWithRooms(r.Context(), id)
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to get building", err).WithRequestID(requestID))
		return
	}
	if building == nil {
		respondWithError(w, errors.NewNotFoundError("building not found", nil).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, building)
}

// @Summary Update a building
// @Tags buildings
// @Accept json
// @Produce json
// @Param id path int true "Building ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.APIError
// @Router /buildings/{id} [put]
// @Security BearerAuth
func (h *BuildingHandlers) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var fields store.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.UpdateBuilding(r.Context(), id, fields); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// @Summary Delete a building
// @Description Rooms are not cascaded and will render with an unknown building
// @Tags buildings
// @Param id path int true "Building ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.APIError
// @Router /buildings/{id} [delete]
// @Security BearerAuth
func (h *BuildingHandlers) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.hubservice.DeleteBuilding(r.Context(), id); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("invalid id", err)
	}
	return id, nil
}
