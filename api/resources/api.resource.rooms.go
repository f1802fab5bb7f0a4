// FilePath: api/resources/api.resource.rooms.go
package resources

import (
	"encoding/json"
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/hubservice"
	"github.com/roomsense/hub/internal/store"
)

// RoomHandlers encapsulates the room-related HTTP handlers
type RoomHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Create a new room
// @Description Attach a classroom to an existing building
// @Tags rooms
// @Accept json
// @Produce json
// @Success 201 {object} map[string]int64
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /rooms [post]
// @Security BearerAuth
func (h *RoomHandlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var fields store.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	id, err := h.hubservice.CreateRoom(r.Context(), fields)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// @Summary Get a room
// @Tags rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} store.Record
// @Failure 404 {object} errors.APIError
// @Router /rooms/{id} [get]
func (h *RoomHandlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	room, err := h.hubservice.GetRoom(r.Context(), id)
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to get room", err).WithRequestID(requestID))
		return
	}
	if room == nil {
		respondWithError(w, errors.NewNotFoundError("room not found", nil).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, room)
}

// @Summary Delete a room
// @Description Cascades to the room's sensors and motion events; deleting an unknown room succeeds
// @Tags rooms
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]string
// @Router /rooms/{id} [delete]
// @Security BearerAuth
func (h *RoomHandlers) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.hubservice.DeleteRoom(r.Context(), id); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
