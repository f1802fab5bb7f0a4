// FilePath: internal/repository/buildings.go
package repository

import (
	"context"

	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/store"
)

// BuildingRepo is the buildings accessor.
//
// Columns: id, building_name, floors, color.
type BuildingRepo struct {
	collectionRepo
}

// NewBuildingRepository creates a buildings accessor on the given store.
func NewBuildingRepository(db store.Store) *BuildingRepo {
	return &BuildingRepo{collectionRepo{db: db, collection: models.CollectionBuildings}}
}

func (r *BuildingRepo) Create(ctx context.Context, fields store.Fields) (int64, error) {
	return r.insert(ctx, fields)
}

func (r *BuildingRepo) GetByID(ctx context.Context, id int64) (store.Record, error) {
	return r.first(ctx, store.Filters{"id": id})
}

func (r *BuildingRepo) List(ctx context.Context) ([]store.Record, error) {
	return r.filter(ctx, nil, nil)
}

func (r *BuildingRepo) UpdateByID(ctx context.Context, id int64, fields store.Fields) (int64, error) {
	return r.updateWhere(ctx, fields, store.Filters{"id": id})
}

// DeleteByID removes the building row only. Rooms are intentionally not
// cascaded; they render with an "Unknown" building afterwards.
func (r *BuildingRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return r.deleteWhere(ctx, store.Filters{"id": id})
}
