// FilePath: internal/repository/repository.go
package repository

import (
	"context"

	"github.com/roomsense/hub/internal/store"
)

// Each repository binds a fixed collection name to typed operations on
// the Store contract. Lookups by id that match nothing return (nil, nil)
// rather than an error; rendering code treats absence as a degraded,
// not exceptional, state.

// BuildingRepository defines the accessor for buildings.
type BuildingRepository interface {
	Create(ctx context.Context, fields store.Fields) (int64, error)
	GetByID(ctx context.Context, id int64) (store.Record, error)
	List(ctx context.Context) ([]store.Record, error)
	UpdateByID(ctx context.Context, id int64, fields store.Fields) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// RoomRepository defines the accessor for classrooms. Create assumes
// the referenced building exists; callers validate that beforehand.
type RoomRepository interface {
	Create(ctx context.Context, fields store.Fields) (int64, error)
	GetByID(ctx context.Context, id int64) (store.Record, error)
	List(ctx context.Context) ([]store.Record, error)
	ListByBuilding(ctx context.Context, buildingID int64) ([]store.Record, error)
	ListByFloor(ctx context.Context, buildingID, floor int64) ([]store.Record, error)
	UpdateByID(ctx context.Context, id int64, fields store.Fields) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// SensorRepository defines the accessor for sensors.
type SensorRepository interface {
	Create(ctx context.Context, fields store.Fields) (int64, error)
	GetByID(ctx context.Context, id int64) (store.Record, error)
	GetByToken(ctx context.Context, token string) (store.Record, error)
	ListByRoom(ctx context.Context, roomID int64) ([]store.Record, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteByRoom(ctx context.Context, roomID int64) (int64, error)
}

// MotionEventRepository defines the accessor for motion events. Events
// are append-only; there is no update operation.
type MotionEventRepository interface {
	Create(ctx context.Context, fields store.Fields) (int64, error)
	GetByID(ctx context.Context, id int64) (store.Record, error)
	List(ctx context.Context) ([]store.Record, error)
	ListRecent(ctx context.Context, limit int) ([]store.Record, error)
	ListByRoom(ctx context.Context, roomID int64, limit int) ([]store.Record, error)
	DeleteByRoom(ctx context.Context, roomID int64) (int64, error)
}

// UserRepository defines the accessor for admin users.
type UserRepository interface {
	Create(ctx context.Context, fields store.Fields) (int64, error)
	GetByID(ctx context.Context, id int64) (store.Record, error)
	GetByUsername(ctx context.Context, username string) (store.Record, error)
	UpdateByID(ctx context.Context, id int64, fields store.Fields) (int64, error)
}
