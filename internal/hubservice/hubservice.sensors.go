package hubservice

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/store"
)

// CreateSensor provisions a sensor for an existing room. The caller
// supplies the public device id; the private submission token is
// generated here and returned exactly once, in the created record.
func (s *HubService) CreateSensor(ctx context.Context, roomID int64, deviceID string) (store.Record, error) {
	if deviceID == "" {
		return nil, errors.NewValidationError("device_id is required", nil)
	}
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, errors.NewNotFoundError("room not found", nil)
	}

	token := nuts.NID("sns", 21)
	id, err := s.Sensors.Create(ctx, store.Fields{
		"room_id":   roomID,
		"device_id": deviceID,
		"token":     token,
	})
	if err != nil {
		return nil, err
	}

	nuts.L.Infof("[HubService] Created sensor %d (device %s) for room %d", id, deviceID, roomID)
	return store.Record{
		"id":        id,
		"room_id":   roomID,
		"device_id": deviceID,
		"token":     token,
	}, nil
}

// RecordMotion appends a motion event for the room owned by the sensor
// holding the given token. Unknown tokens are rejected; the event is
// stamped with the hub clock on both event_time and received_at.
func (s *HubService) RecordMotion(ctx context.Context, token string, confidence int64, payload string) (int64, error) {
	if confidence < 0 || confidence > 100 {
		return 0, errors.NewValidationError("confidence must be between 0 and 100", nil)
	}

	sensor, err := s.Sensors.GetByToken(ctx, token)
	if err != nil {
		return 0, err
	}
	if sensor == nil {
		return 0, errors.NewAuthError("unknown sensor token", nil)
	}

	roomID, ok := models.Int64(sensor["room_id"])
	if !ok {
		return 0, errors.NewInternalError("sensor has no room binding", nil)
	}
	sensorID, _ := models.Int64(sensor["id"])

	now := s.now()
	id, err := s.Events.Create(ctx, store.Fields{
		"classroom_id": roomID,
		"sensor_id":    sensorID,
		"event_time":   now,
		"received_at":  now,
		"confidence":   confidence,
		"payload":      payload,
	})
	if err != nil {
		return 0, err
	}

	nuts.L.Debugf("[HubService] Motion event %d recorded for room %d by sensor %d", id, roomID, sensorID)
	return id, nil
}
