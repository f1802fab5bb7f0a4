// FilePath: internal/repository/users.go
package repository

import (
	"context"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/store"
)

// UserRepo is the users accessor.
//
// Columns: id, username (unique), password (bcrypt hash), role.
type UserRepo struct {
	collectionRepo
}

// NewUserRepository creates a users accessor on the given store.
func NewUserRepository(db store.Store) *UserRepo {
	return &UserRepo{collectionRepo{db: db, collection: models.CollectionUsers}}
}

func (r *UserRepo) Create(ctx context.Context, fields store.Fields) (int64, error) {
	if username, _ := fields["username"].(string); username == "" {
		return 0, errors.NewValidationError("user requires a non-empty username", nil)
	}
	return r.insert(ctx, fields)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (store.Record, error) {
	return r.first(ctx, store.Filters{"id": id})
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (store.Record, error) {
	if username == "" {
		return nil, errors.NewValidationError("username required", nil)
	}
	return r.first(ctx, store.Filters{"username": username})
}

func (r *UserRepo) UpdateByID(ctx context.Context, id int64, fields store.Fields) (int64, error) {
	return r.updateWhere(ctx, fields, store.Filters{"id": id})
}
