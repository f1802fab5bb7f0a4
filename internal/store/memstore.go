// FilePath: internal/store/memstore.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/roomsense/hub/internal/errors"
)

// MemStore is the in-memory, optionally file-backed Store backend used
// for tests and offline runs. The persisted layout is a single JSON
// document keyed by collection name, each value an ordered list of flat
// field maps carrying an "id" auto-increment key. Writes rewrite the
// whole document.
type MemStore struct {
	mu     sync.Mutex
	path   string
	data   map[string][]Record
	nextID map[string]int64
}

// NewMemStore creates an empty in-memory store. If path is non-empty
// the document at path is loaded when present and rewritten on every
// successful write.
func NewMemStore(path string) (*MemStore, error) {
	s := &MemStore{
		path:   path,
		data:   map[string][]Record{},
		nextID: map[string]int64{},
	}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to read mock store file", err)
	}
	if err := s.load(raw); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MemStore) load(raw []byte) error {
	var doc map[string][]Record
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.NewInternalError("malformed mock store file", err)
	}
	s.data = doc
	for collection, rows := range doc {
		var max int64
		for _, row := range rows {
			if id, ok := looseInt64(row["id"]); ok && id > max {
				max = id
			}
		}
		s.nextID[collection] = max
	}
	return nil
}

func (s *MemStore) save() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return errors.NewInternalError("failed to encode mock store", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return errors.NewTransportError("failed to write mock store file", err)
	}
	return nil
}

// Close implements Store; the mock holds no connection.
func (s *MemStore) Close() error {
	return nil
}

func (s *MemStore) collection(name string) []Record {
	if _, ok := s.data[name]; !ok {
		s.data[name] = []Record{}
		s.nextID[name] = 0
	}
	return s.data[name]
}

// Select implements Store with the same filter, ordering and pagination
// semantics as the SQL backend.
func (s *MemStore) Select(ctx context.Context, collection string, filters Filters, opts *SelectOptions) ([]Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if err := checkColumns("filter", filters); err != nil {
		return nil, err
	}
	terms, err := checkSelectOptions(opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []Record
	for _, row := range s.collection(collection) {
		if matches(row, filters) {
			rows = append(rows, row.Clone())
		}
	}

	if len(terms) > 0 {
		// stable sort keeps insertion order for ties
		sort.SliceStable(rows, func(i, j int) bool {
			for _, t := range terms {
				c := compareValues(rows[i][t.column], rows[j][t.column])
				if c == 0 {
					continue
				}
				if t.descending {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if opts != nil && opts.Limit > 0 {
		if opts.Offset >= len(rows) {
			return nil, nil
		}
		rows = rows[opts.Offset:]
		if opts.Limit < len(rows) {
			rows = rows[:opts.Limit]
		}
	}

	return rows, nil
}

// Insert implements Store.
func (s *MemStore) Insert(ctx context.Context, collection string, fields Fields) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, errors.NewValidationError("insert requires at least one field", nil)
	}
	if err := checkColumns("field", fields); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.collection(collection)
	s.nextID[collection]++
	id := s.nextID[collection]

	row := Record{"id": id}
	for k, v := range fields {
		row[k] = v
	}
	s.data[collection] = append(rows, row)

	if err := s.save(); err != nil {
		return 0, err
	}
	return id, nil
}

// Update implements Store.
func (s *MemStore) Update(ctx context.Context, collection string, fields Fields, where Filters) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, errors.NewValidationError("update requires at least one field", nil)
	}
	if len(where) == 0 {
		return 0, errors.NewValidationError("unscoped update rejected: where filters required", nil)
	}
	if err := checkColumns("field", fields); err != nil {
		return 0, err
	}
	if err := checkColumns("filter", where); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, row := range s.collection(collection) {
		if matches(row, where) {
			for k, v := range fields {
				row[k] = v
			}
			updated++
		}
	}

	if updated > 0 {
		if err := s.save(); err != nil {
			return 0, err
		}
	}
	return updated, nil
}

// Delete implements Store.
func (s *MemStore) Delete(ctx context.Context, collection string, where Filters) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	if len(where) == 0 {
		return 0, errors.NewValidationError("unscoped delete rejected: where filters required", nil)
	}
	if err := checkColumns("filter", where); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.collection(collection)
	kept := rows[:0]
	for _, row := range rows {
		if !matches(row, where) {
			kept = append(kept, row)
		}
	}
	deleted := int64(len(rows) - len(kept))
	s.data[collection] = kept

	if deleted > 0 {
		if err := s.save(); err != nil {
			return 0, err
		}
	}
	return deleted, nil
}

func matches(row Record, filters Filters) bool {
	for k, want := range filters {
		if !valueEqual(row[k], want) {
			return false
		}
	}
	return true
}

// valueEqual compares loosely across the numeric types that a JSON
// round trip produces (int64 written, float64 read back).
func valueEqual(a, b any) bool {
	af, aok := looseFloat64(a)
	bf, bok := looseFloat64(b)
	if aok && bok {
		return af == bf
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two record values: nil first, then numbers,
// times, and everything else by string form.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if af, ok := looseFloat64(a); ok {
		if bf, ok := looseFloat64(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if at, ok := looseTime(a); ok {
		if bt, ok := looseTime(b); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func looseFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func looseInt64(v any) (int64, bool) {
	f, ok := looseFloat64(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func looseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
