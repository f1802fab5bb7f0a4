// FilePath: internal/repository/baserepo.go
package repository

import (
	"context"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/store"
)

// collectionRepo binds a store reference to a fixed collection name.
// Repositories hold the store, they never own its lifecycle.
type collectionRepo struct {
	db         store.Store
	collection string
}

func (r collectionRepo) filter(ctx context.Context, where store.Filters, opts *store.SelectOptions) ([]store.Record, error) {
	return r.db.Select(ctx, r.collection, where, opts)
}

// first returns the first matching record, or nil when none match.
func (r collectionRepo) first(ctx context.Context, where store.Filters) (store.Record, error) {
	rows, err := r.db.Select(ctx, r.collection, where, &store.SelectOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r collectionRepo) insert(ctx context.Context, fields store.Fields) (int64, error) {
	if len(fields) == 0 {
		return 0, errors.NewValidationError("create requires at least one field", nil)
	}
	return r.db.Insert(ctx, r.collection, fields)
}

func (r collectionRepo) updateWhere(ctx context.Context, fields store.Fields, where store.Filters) (int64, error) {
	return r.db.Update(ctx, r.collection, fields, where)
}

func (r collectionRepo) deleteWhere(ctx context.Context, where store.Filters) (int64, error) {
	return r.db.Delete(ctx, r.collection, where)
}
