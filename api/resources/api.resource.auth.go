// FilePath: api/resources/api.resource.auth.go
package resources

import (
	"encoding/json"
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/hubservice"
)

// AuthHandlers encapsulates the authentication HTTP handlers
type AuthHandlers struct {
	hubservice *hubservice.HubService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.APIError
// @Router /auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	token, err := h.hubservice.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}
