// FilePath: api/resources/api.resource.home.go
package resources

import (
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/hubservice"
)

const (
	defaultRecentLimit    = 4
	defaultAvailableLimit = 3
)

// HomeHandlers serves the home-screen view-models.
type HomeHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Building summary cards
// @Description One card per building with total and available room counts
// @Tags home
// @Produce json
// @Success 200 {array} models.BuildingCard
// @Router /home/cards [get]
func (h *HomeHandlers) BuildingCards(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	cards, err := h.hubservice.Dashboard.BuildingCards(r.Context())
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to build cards", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, cards)
}

// @Summary Recently active spaces
// @Description Distinct rooms with recent motion, most recent first
// @Tags home
// @Produce json
// @Param limit query int false "Maximum distinct rooms"
// @Success 200 {array} models.RecentSpace
// @Router /home/recent [get]
func (h *HomeHandlers) RecentSpaces(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	params := decodeListParams(r, defaultRecentLimit)

	items, err := h.hubservice.Dashboard.RecentSpaces(r.Context(), params.Limit)
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to build recent spaces", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

// @Summary Rooms available now
// @Description Available rooms sorted by floor and label
// @Tags home
// @Produce json
// @Param limit query int false "Maximum rooms"
// @Success 200 {array} models.AvailableRoom
// @Router /home/available [get]
func (h *HomeHandlers) AvailableNow(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	params := decodeListParams(r, defaultAvailableLimit)

	items, err := h.hubservice.Dashboard.AvailableNow(r.Context(), params.Limit)
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to build available list", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}
