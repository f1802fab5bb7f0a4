// FilePath: internal/repository/events.go
package repository

import (
	"context"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/store"
)

// MotionEventRepo is the classroom_motion_events accessor. The
// collection is append-only: rows are created on sensor ingest and only
// removed by the room cascade.
//
// Columns: id, classroom_id, sensor_id, event_time, received_at,
// confidence, payload.
type MotionEventRepo struct {
	collectionRepo
}

// NewMotionEventRepository creates a motion-events accessor on the
// given store.
func NewMotionEventRepository(db store.Store) *MotionEventRepo {
	return &MotionEventRepo{collectionRepo{db: db, collection: models.CollectionMotionEvents}}
}

func (r *MotionEventRepo) Create(ctx context.Context, fields store.Fields) (int64, error) {
	return r.insert(ctx, fields)
}

func (r *MotionEventRepo) GetByID(ctx context.Context, id int64) (store.Record, error) {
	return r.first(ctx, store.Filters{"id": id})
}

func (r *MotionEventRepo) List(ctx context.Context) ([]store.Record, error) {
	return r.filter(ctx, nil, nil)
}

// ListRecent returns up to limit events, most recent event_time first.
func (r *MotionEventRepo) ListRecent(ctx context.Context, limit int) ([]store.Record, error) {
	if limit <= 0 {
		return nil, errors.NewValidationError("limit must be positive", nil)
	}
	return r.filter(ctx, nil, &store.SelectOptions{OrderBy: "event_time DESC", Limit: limit})
}

// ListByRoom returns the motion history of one classroom, most recently
// received first.
func (r *MotionEventRepo) ListByRoom(ctx context.Context, roomID int64, limit int) ([]store.Record, error) {
	if limit <= 0 {
		return nil, errors.NewValidationError("limit must be positive", nil)
	}
	return r.filter(ctx, store.Filters{"classroom_id": roomID}, &store.SelectOptions{OrderBy: "received_at DESC", Limit: limit})
}

func (r *MotionEventRepo) DeleteByRoom(ctx context.Context, roomID int64) (int64, error) {
	return r.deleteWhere(ctx, store.Filters{"classroom_id": roomID})
}
