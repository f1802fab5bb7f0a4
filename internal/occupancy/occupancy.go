// FilePath: internal/occupancy/occupancy.go

// Package occupancy derives busy/available state for classrooms from
// recent motion events. Nothing is persisted: every call recomputes
// from fresh room and event snapshots, so the state can never drift
// from the event log.
package occupancy

import (
	"context"
	"time"

	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/repository"
	"github.com/roomsense/hub/internal/store"
)

// Engine computes room availability over a configured activity window.
// A room is busy iff some motion event for it happened within the
// window; everything else is available.
type Engine struct {
	rooms  repository.RoomRepository
	events repository.MotionEventRepository
	window time.Duration
	now    func() time.Time
}

// New creates an engine with the given activity window.
func New(rooms repository.RoomRepository, events repository.MotionEventRepository, window time.Duration) *Engine {
	return &Engine{
		rooms:  rooms,
		events: events,
		window: window,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the engine's clock; tests pin it.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Window returns the configured activity window.
func (e *Engine) Window() time.Duration {
	return e.window
}

// AvailableRooms returns the full room records currently considered
// available. Rooms whose id is missing or malformed cannot be matched
// against the busy set and are conservatively treated as available.
func (e *Engine) AvailableRooms(ctx context.Context) ([]store.Record, error) {
	rooms, err := e.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	events, err := e.events.List(ctx)
	if err != nil {
		return nil, err
	}

	busy := e.busyRoomIDs(events)
	if len(busy) == 0 {
		return rooms, nil
	}

	available := make([]store.Record, 0, len(rooms))
	for _, room := range rooms {
		id, ok := models.Int64(room["id"])
		if !ok {
			available = append(available, room)
			continue
		}
		if _, isBusy := busy[id]; !isBusy {
			available = append(available, room)
		}
	}
	return available, nil
}

// AvailableRoomIDs returns the set of available room ids for O(1)
// membership tests by the aggregation pipeline.
func (e *Engine) AvailableRoomIDs(ctx context.Context) (map[int64]struct{}, error) {
	rooms, err := e.AvailableRooms(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(rooms))
	for _, room := range rooms {
		if id, ok := models.Int64(room["id"]); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

// FilterRecent keeps events whose event_time lies within [now-window,
// now]. Events with missing or malformed timestamps are discarded, as
// are events from the future.
func (e *Engine) FilterRecent(events []store.Record) []store.Record {
	now := e.now()

	var recent []store.Record
	for _, ev := range events {
		t, ok := models.Time(ev["event_time"])
		if !ok {
			continue
		}
		delta := now.Sub(t)
		if delta >= 0 && delta <= e.window {
			recent = append(recent, ev)
		}
	}
	return recent
}

// busyRoomIDs collects the distinct classroom ids referenced by recent
// events. Orphan events whose room no longer exists simply never match
// a room and are harmless here.
func (e *Engine) busyRoomIDs(events []store.Record) map[int64]struct{} {
	busy := map[int64]struct{}{}
	for _, ev := range e.FilterRecent(events) {
		if id, ok := models.Int64(ev["classroom_id"]); ok {
			busy[id] = struct{}{}
		}
	}
	return busy
}
