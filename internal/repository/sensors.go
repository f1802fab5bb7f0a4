// FilePath: internal/repository/sensors.go
package repository

import (
	"context"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/store"
)

// SensorRepo is the sensors accessor.
//
// Columns: id, room_id, device_id (public, caller-supplied), token
// (private credential, generated server-side).
type SensorRepo struct {
	collectionRepo
}

// NewSensorRepository creates a sensors accessor on the given store.
func NewSensorRepository(db store.Store) *SensorRepo {
	return &SensorRepo{collectionRepo{db: db, collection: models.CollectionSensors}}
}

func (r *SensorRepo) Create(ctx context.Context, fields store.Fields) (int64, error) {
	if token, _ := fields["token"].(string); token == "" {
		return 0, errors.NewValidationError("sensor requires a non-empty token", nil)
	}
	if _, ok := fields["room_id"]; !ok {
		return 0, errors.NewValidationError("sensor requires a room_id", nil)
	}
	return r.insert(ctx, fields)
}

func (r *SensorRepo) GetByID(ctx context.Context, id int64) (store.Record, error) {
	return r.first(ctx, store.Filters{"id": id})
}

// GetByToken resolves the sensor holding the private credential used to
// authenticate motion submissions.
func (r *SensorRepo) GetByToken(ctx context.Context, token string) (store.Record, error) {
	if token == "" {
		return nil, errors.NewValidationError("sensor token required", nil)
	}
	return r.first(ctx, store.Filters{"token": token})
}

func (r *SensorRepo) ListByRoom(ctx context.Context, roomID int64) ([]store.Record, error) {
	return r.filter(ctx, store.Filters{"room_id": roomID}, nil)
}

func (r *SensorRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return r.deleteWhere(ctx, store.Filters{"id": id})
}

func (r *SensorRepo) DeleteByRoom(ctx context.Context, roomID int64) (int64, error) {
	return r.deleteWhere(ctx, store.Filters{"room_id": roomID})
}
