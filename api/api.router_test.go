package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsense/hub/api/middleware"
	"github.com/roomsense/hub/internal/hubservice"
	"github.com/roomsense/hub/internal/store"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*Router, *hubservice.HubService) {
	db, err := store.NewMemStore("")
	require.NoError(t, err)

	svc := hubservice.New(db, hubservice.Options{
		ActivityWindow: 15 * time.Minute,
		JWTSecret:      testSecret,
		TokenTTL:       time.Hour,
	})
	require.NoError(t, svc.Validate())

	router := NewRouter(svc,
		middleware.AuthConfig{JWTSecret: testSecret},
		middleware.RateLimitConfig{}, // limiting disabled
	)
	return router, svc
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func adminToken(t *testing.T, router http.Handler, svc *hubservice.HubService) string {
	_, err := svc.CreateUser(context.Background(), "admin", "hunter2", "admin")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
}

func TestRouter_AdminRoutesRequireAuth(t *testing.T) {
	router, svc := newTestRouter(t)

	building := map[string]any{"building_name": "Engineering"}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/buildings", "", building)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/buildings", "not-a-token", building)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// a valid token with a non-admin role is rejected with 403
	_, err := svc.CreateUser(context.Background(), "viewer", "pw", "user")
	require.NoError(t, err)
	viewerToken, err := svc.Login(context.Background(), "viewer", "pw")
	require.NoError(t, err)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/buildings", viewerToken, building)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token := adminToken(t, router, svc)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/buildings", token, building)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_BuildingLifecycle(t *testing.T) {
	router, svc := newTestRouter(t)
	token := adminToken(t, router, svc)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/buildings", token, map[string]any{
		"building_name": "Engineering",
		"floors":        4,
		"color":         "#1a73e8",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]int64
	decodeBody(t, rec, &created)
	require.Equal(t, int64(1), created["id"])

	rec = doJSON(t, router, http.MethodPost, "/api/v1/rooms", token, map[string]any{
		"id_building":  1,
		"class_number": "101",
		"floor":        1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// public building detail includes rooms with availability flags
	rec = doJSON(t, router, http.MethodGet, "/api/v1/buildings/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail map[string]any
	decodeBody(t, rec, &detail)
	assert.Equal(t, "Engineering", detail["building_name"])
	rooms, ok := detail["rooms"].([]any)
	require.True(t, ok)
	require.Len(t, rooms, 1)
	room := rooms[0].(map[string]any)
	assert.Equal(t, true, room["is_available"])

	rec = doJSON(t, router, http.MethodGet, "/api/v1/buildings/42", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/buildings/1", token, map[string]any{
		"color": "#000",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/buildings/1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/api/v1/buildings/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SensorIngestFlow(t *testing.T) {
	router, svc := newTestRouter(t)
	token := adminToken(t, router, svc)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/buildings", token, map[string]any{
		"building_name": "Engineering",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/rooms", token, map[string]any{
		"id_building":  1,
		"class_number": "101",
		"floor":        1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sensors", token, map[string]any{
		"room_id":   1,
		"device_id": "esp32-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var sensor map[string]any
	decodeBody(t, rec, &sensor)
	sensorToken, _ := sensor["token"].(string)
	require.NotEmpty(t, sensorToken)

	// ingest is public but requires the sensor token
	rec = doJSON(t, router, http.MethodPost, "/api/v1/sensors/activity", "", map[string]any{
		"token":      "bogus",
		"confidence": 80,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sensors/activity", "", map[string]any{
		"token":      sensorToken,
		"confidence": 80,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ack map[string]any
	decodeBody(t, rec, &ack)
	assert.Equal(t, true, ack["flag"])

	// the room now shows busy on the home views
	rec = doJSON(t, router, http.MethodGet, "/api/v1/home/recent?limit=4", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recent []map[string]any
	decodeBody(t, rec, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, "Room 101", recent[0]["name"])
	assert.Equal(t, "busy", recent[0]["status"])

	rec = doJSON(t, router, http.MethodGet, "/api/v1/home/available", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var available []map[string]any
	decodeBody(t, rec, &available)
	assert.Empty(t, available)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/home/cards", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cards []map[string]any
	decodeBody(t, rec, &cards)
	require.Len(t, cards, 1)
	assert.Equal(t, float64(1), cards[0]["totalRooms"])
	assert.Equal(t, float64(0), cards[0]["availableRooms"])
}

func TestRouter_RoomDeleteCascades(t *testing.T) {
	router, svc := newTestRouter(t)
	token := adminToken(t, router, svc)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/buildings", token, map[string]any{
		"building_name": "Engineering",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/rooms", token, map[string]any{
		"id_building":  1,
		"class_number": "101",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/rooms/1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/rooms/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// deleting again still succeeds
	rec = doJSON(t, router, http.MethodDelete, "/api/v1/rooms/1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
