// FilePath: internal/occupancy/occupancy_test.go
package occupancy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/repository"
	"github.com/roomsense/hub/internal/store"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

const testWindow = 15 * time.Minute

type fixture struct {
	db     *store.MemStore
	rooms  *repository.RoomRepo
	events *repository.MotionEventRepo
	engine *Engine
}

func newFixture(t *testing.T) *fixture {
	db, err := store.NewMemStore("")
	require.NoError(t, err)

	rooms := repository.NewRoomRepository(db)
	events := repository.NewMotionEventRepository(db)
	engine := New(rooms, events, testWindow).
		WithClock(func() time.Time { return testNow })

	return &fixture{db: db, rooms: rooms, events: events, engine: engine}
}

func (f *fixture) addRoom(t *testing.T, buildingID int64, number string) int64 {
	id, err := f.rooms.Create(context.Background(), store.Fields{
		"id_building":  buildingID,
		"class_number": number,
		"floor":        1,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) addEvent(t *testing.T, roomID int64, at any) {
	_, err := f.events.Create(context.Background(), store.Fields{
		"classroom_id": roomID,
		"event_time":   at,
		"received_at":  testNow,
	})
	require.NoError(t, err)
}

func roomIDs(rooms []store.Record) []int64 {
	out := make([]int64, 0, len(rooms))
	for _, r := range rooms {
		if id, ok := models.Int64(r["id"]); ok {
			out = append(out, id)
		}
	}
	return out
}

func TestEngine_NoEventsAllAvailable(t *testing.T) {
	f := newFixture(t)
	a := f.addRoom(t, 1, "101")
	b := f.addRoom(t, 1, "102")

	rooms, err := f.engine.AvailableRooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{a, b}, roomIDs(rooms))
}

func TestEngine_RecentEventMarksRoomBusy(t *testing.T) {
	f := newFixture(t)
	busy := f.addRoom(t, 1, "101")
	free := f.addRoom(t, 1, "102")

	f.addEvent(t, busy, testNow.Add(-5*time.Minute))

	rooms, err := f.engine.AvailableRooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{free}, roomIDs(rooms))
}

func TestEngine_WindowBoundaries(t *testing.T) {
	testCases := []struct {
		name string
		at   time.Time
		busy bool
	}{
		{"event right now", testNow, true},
		{"inside the window", testNow.Add(-testWindow + time.Second), true},
		{"exactly at the window edge", testNow.Add(-testWindow), true},
		{"one second past the window", testNow.Add(-testWindow - time.Second), false},
		{"from the future", testNow.Add(time.Minute), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			room := f.addRoom(t, 1, "101")
			f.addEvent(t, room, tc.at)

			rooms, err := f.engine.AvailableRooms(context.Background())
			require.NoError(t, err)
			if tc.busy {
				assert.Empty(t, rooms)
			} else {
				assert.Equal(t, []int64{room}, roomIDs(rooms))
			}
		})
	}
}

func TestEngine_MalformedTimestampsDiscarded(t *testing.T) {
	f := newFixture(t)
	room := f.addRoom(t, 1, "101")

	f.addEvent(t, room, "not-a-timestamp")
	f.addEvent(t, room, nil)

	rooms, err := f.engine.AvailableRooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{room}, roomIDs(rooms))
}

func TestEngine_StringTimestampsParsed(t *testing.T) {
	f := newFixture(t)
	room := f.addRoom(t, 1, "101")

	// timestamps survive a JSON round trip as RFC3339 strings
	f.addEvent(t, room, testNow.Add(-time.Minute).Format(time.RFC3339))

	rooms, err := f.engine.AvailableRooms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestEngine_MalformedRoomIDStaysAvailable(t *testing.T) {
	f := newFixture(t)
	busy := f.addRoom(t, 1, "101")
	broken := f.addRoom(t, 1, "999")
	f.addEvent(t, busy, testNow)

	// corrupt the second room's id so it cannot match the busy set
	_, err := f.db.Update(context.Background(), "classrooms",
		store.Fields{"id": "oops"}, store.Filters{"id": broken})
	require.NoError(t, err)

	rooms, err := f.engine.AvailableRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "999", rooms[0]["class_number"])
}

func TestEngine_OrphanEventsHarmless(t *testing.T) {
	f := newFixture(t)
	room := f.addRoom(t, 1, "101")

	// event for a room that no longer exists
	f.addEvent(t, 9999, testNow)

	rooms, err := f.engine.AvailableRooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{room}, roomIDs(rooms))
}

func TestEngine_AvailableRoomIDs(t *testing.T) {
	f := newFixture(t)
	busy := f.addRoom(t, 1, "101")
	free := f.addRoom(t, 1, "102")
	f.addEvent(t, busy, testNow.Add(-time.Minute))

	ids, err := f.engine.AvailableRoomIDs(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ids, free)
	assert.NotContains(t, ids, busy)
}

func TestEngine_FilterRecent(t *testing.T) {
	f := newFixture(t)

	events := []store.Record{
		{"id": int64(1), "event_time": testNow.Add(-time.Minute)},
		{"id": int64(2), "event_time": testNow.Add(-time.Hour)},
		{"id": int64(3), "event_time": "garbage"},
		{"id": int64(4), "event_time": testNow.Add(time.Hour)},
	}

	recent := f.engine.FilterRecent(events)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(1), recent[0]["id"])
}
