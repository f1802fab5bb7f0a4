// FilePath: internal/store/store.go
package store

import (
	"context"
)

// Record is a single row of a collection, keyed by column name.
type Record map[string]any

// Fields carries column values for insert/update operations.
type Fields map[string]any

// Filters carries equality conditions; all pairs are ANDed.
type Filters map[string]any

// SelectOptions controls ordering and pagination of a Select.
//
// OrderBy accepts comma-separated terms, each either a bare column
// (ascending), a column prefixed with "-" (descending), or
// "column ASC|DESC". A zero Limit means no limit; Offset requires a
// positive Limit because backend pagination needs an upper bound.
type SelectOptions struct {
	OrderBy string
	Limit   int
	Offset  int
}

// Store executes CRUD operations against named collections. Both
// backends (SQL and the JSON-file mock) honor identical filter,
// ordering and pagination semantics: without OrderBy records come back
// in insertion order, and ordering ties are broken by insertion order.
type Store interface {
	// Select returns the records matching all equality filters.
	Select(ctx context.Context, collection string, filters Filters, opts *SelectOptions) ([]Record, error)

	// Insert adds a record and returns the backend-assigned id.
	Insert(ctx context.Context, collection string, fields Fields) (int64, error)

	// Update applies fields to every record matching where and returns
	// the affected count. Unscoped updates are rejected.
	Update(ctx context.Context, collection string, fields Fields, where Filters) (int64, error)

	// Delete removes every record matching where and returns the
	// affected count. Unscoped deletes are rejected.
	Delete(ctx context.Context, collection string, where Filters) (int64, error)

	// Close releases the underlying connection, if any.
	Close() error
}

// Clone returns a shallow copy of a record. Callers of the mock backend
// receive clones so they can never mutate stored state.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
