// FilePath: internal/repository/rooms.go
package repository

import (
	"context"

	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/store"
)

// RoomRepo is the classrooms accessor.
//
// Columns: id, id_building, floor, class_number, id_category.
type RoomRepo struct {
	collectionRepo
}

// NewRoomRepository creates a classrooms accessor on the given store.
func NewRoomRepository(db store.Store) *RoomRepo {
	return &RoomRepo{collectionRepo{db: db, collection: models.CollectionRooms}}
}

func (r *RoomRepo) Create(ctx context.Context, fields store.Fields) (int64, error) {
	return r.insert(ctx, fields)
}

func (r *RoomRepo) GetByID(ctx context.Context, id int64) (store.Record, error) {
	return r.first(ctx, store.Filters{"id": id})
}

func (r *RoomRepo) List(ctx context.Context) ([]store.Record, error) {
	return r.filter(ctx, nil, nil)
}

func (r *RoomRepo) ListByBuilding(ctx context.Context, buildingID int64) ([]store.Record, error) {
	return r.filter(ctx, store.Filters{"id_building": buildingID}, nil)
}

func (r *RoomRepo) ListByFloor(ctx context.Context, buildingID, floor int64) ([]store.Record, error) {
	return r.filter(ctx, store.Filters{"id_building": buildingID, "floor": floor}, nil)
}

func (r *RoomRepo) UpdateByID(ctx context.Context, id int64, fields store.Fields) (int64, error) {
	return r.updateWhere(ctx, fields, store.Filters{"id": id})
}

func (r *RoomRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return r.deleteWhere(ctx, store.Filters{"id": id})
}
