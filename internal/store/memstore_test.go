// FilePath: internal/store/memstore_test.go
package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsense/hub/internal/errors"
)

func newTestMemStore(t *testing.T) *MemStore {
	s, err := NewMemStore("")
	require.NoError(t, err)
	return s
}

func TestMemStore_InsertAndSelect(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStore(t)

	id, err := s.Insert(ctx, "things", Fields{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	rows, err := s.Select(ctx, "things", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Record{"id": int64(1), "x": 1}, rows[0])

	// returned records are clones; mutating them must not leak back
	rows[0]["x"] = 99
	rows, err = s.Select(ctx, "things", Filters{"x": 1}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// ids keep incrementing per collection
	id, err = s.Insert(ctx, "things", Fields{"x": 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestMemStore_SelectFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStore(t)

	_, err := s.Insert(ctx, "classrooms", Fields{"id_building": 1, "floor": 1})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "classrooms", Fields{"id_building": 1, "floor": 2})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "classrooms", Fields{"id_building": 2, "floor": 1})
	require.NoError(t, err)

	// filters are ANDed
	rows, err := s.Select(ctx, "classrooms", Filters{"id_building": 1, "floor": 2}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0]["id"])

	// numeric filter values match loosely across int widths
	rows, err = s.Select(ctx, "classrooms", Filters{"id_building": int64(1)}, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.Select(ctx, "classrooms", Filters{"id_building": 99}, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemStore_SelectOrderingAndPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStore(t)

	for _, f := range []Fields{
		{"name": "C", "floor": 2},
		{"name": "A", "floor": 1},
		{"name": "B", "floor": 2},
		{"name": "D", "floor": 1},
	} {
		_, err := s.Insert(ctx, "rooms", f)
		require.NoError(t, err)
	}

	names := func(rows []Record) []any {
		out := make([]any, len(rows))
		for i, r := range rows {
			out[i] = r["name"]
		}
		return out
	}

	// no order-by returns insertion order
	rows, err := s.Select(ctx, "rooms", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"C", "A", "B", "D"}, names(rows))

	// ties keep insertion order
	rows, err = s.Select(ctx, "rooms", nil, &SelectOptions{OrderBy: "floor"})
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "D", "C", "B"}, names(rows))

	rows, err = s.Select(ctx, "rooms", nil, &SelectOptions{OrderBy: "-floor, name"})
	require.NoError(t, err)
	assert.Equal(t, []any{"B", "C", "A", "D"}, names(rows))

	rows, err = s.Select(ctx, "rooms", nil, &SelectOptions{OrderBy: "name", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []any{"B", "C"}, names(rows))

	// offset past the end is an empty result, not an error
	rows, err = s.Select(ctx, "rooms", nil, &SelectOptions{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = s.Select(ctx, "rooms", nil, &SelectOptions{Offset: 2})
	assert.True(t, errors.IsValidation(err))
}

func TestMemStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStore(t)

	_, err := s.Insert(ctx, "buildings", Fields{"building_name": "Old", "color": "#000"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "buildings", Fields{"building_name": "Other", "color": "#000"})
	require.NoError(t, err)

	affected, err := s.Update(ctx, "buildings", Fields{"color": "#ff0000"}, Filters{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows, err := s.Select(ctx, "buildings", Filters{"id": 1}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "#ff0000", rows[0]["color"])

	affected, err = s.Update(ctx, "buildings", Fields{"color": "#fff"}, Filters{"id": 42})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestMemStore_UnscopedWritesRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStore(t)

	_, err := s.Insert(ctx, "buildings", Fields{"building_name": "Engineering"})
	require.NoError(t, err)

	_, err = s.Update(ctx, "buildings", Fields{"building_name": "Renamed"}, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = s.Delete(ctx, "buildings", Filters{})
	assert.True(t, errors.IsValidation(err))

	// the rejected calls must leave stored data untouched
	rows, err := s.Select(ctx, "buildings", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Engineering", rows[0]["building_name"])
}

func TestMemStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.Insert(ctx, "sensors", Fields{"room_id": i % 2})
		require.NoError(t, err)
	}

	deleted, err := s.Delete(ctx, "sensors", Filters{"room_id": 0})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	rows, err := s.Select(ctx, "sensors", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0]["room_id"])

	deleted, err = s.Delete(ctx, "sensors", Filters{"room_id": 0})
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestMemStore_InvalidIdentifiers(t *testing.T) {
	ctx := context.Background()
	s := newTestMemStore(t)

	_, err := s.Select(ctx, "rooms; DROP TABLE rooms", nil, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = s.Insert(ctx, "rooms", Fields{"bad col": 1})
	assert.True(t, errors.IsValidation(err))

	_, err = s.Insert(ctx, "rooms", Fields{})
	assert.True(t, errors.IsValidation(err))
}

func TestMemStore_FilePersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mock.json")

	s, err := NewMemStore(path)
	require.NoError(t, err)

	id, err := s.Insert(ctx, "buildings", Fields{"building_name": "Engineering", "floors": int64(4)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	_, err = s.Insert(ctx, "buildings", Fields{"building_name": "Library", "floors": int64(2)})
	require.NoError(t, err)

	// a fresh store reloads the document and continues the id sequence
	reloaded, err := NewMemStore(path)
	require.NoError(t, err)

	// numbers come back as float64 from JSON; filters still match
	rows, err := reloaded.Select(ctx, "buildings", Filters{"floors": int64(4)}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Engineering", rows[0]["building_name"])

	id, err = reloaded.Insert(ctx, "buildings", Fields{"building_name": "Gym"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	deleted, err := reloaded.Delete(ctx, "buildings", Filters{"building_name": "Library"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	again, err := NewMemStore(path)
	require.NoError(t, err)
	rows, err = again.Select(ctx, "buildings", nil, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
