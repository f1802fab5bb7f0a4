// FilePath: internal/cleanup/cleanup_test.go
package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsense/hub/internal/repository"
	"github.com/roomsense/hub/internal/store"
)

type fixture struct {
	db      *store.MemStore
	rooms   *repository.RoomRepo
	sensors *repository.SensorRepo
	events  *repository.MotionEventRepo
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	db, err := store.NewMemStore("")
	require.NoError(t, err)

	rooms := repository.NewRoomRepository(db)
	sensors := repository.NewSensorRepository(db)
	events := repository.NewMotionEventRepository(db)

	return &fixture{
		db:      db,
		rooms:   rooms,
		sensors: sensors,
		events:  events,
		svc:     New(rooms, sensors, events),
	}
}

func (f *fixture) seedRoom(t *testing.T, sensorCount, eventCount int) int64 {
	ctx := context.Background()
	roomID, err := f.rooms.Create(ctx, store.Fields{
		"id_building":  int64(1),
		"class_number": "101",
		"floor":        1,
	})
	require.NoError(t, err)

	for i := 0; i < sensorCount; i++ {
		_, err := f.sensors.Create(ctx, store.Fields{
			"room_id":   roomID,
			"device_id": "dev",
			"token":     "tok",
		})
		require.NoError(t, err)
	}
	for i := 0; i < eventCount; i++ {
		_, err := f.events.Create(ctx, store.Fields{
			"classroom_id": roomID,
			"event_time":   time.Now().UTC(),
		})
		require.NoError(t, err)
	}
	return roomID
}

func TestDeleteRoom_CascadesSensorsAndEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	target := f.seedRoom(t, 2, 3)
	other := f.seedRoom(t, 1, 1)

	require.NoError(t, f.svc.DeleteRoom(ctx, target))

	room, err := f.rooms.GetByID(ctx, target)
	require.NoError(t, err)
	assert.Nil(t, room)

	sensors, err := f.sensors.ListByRoom(ctx, target)
	require.NoError(t, err)
	assert.Empty(t, sensors)

	events, err := f.events.ListByRoom(ctx, target, 100)
	require.NoError(t, err)
	assert.Empty(t, events)

	// the sibling room and its dependents are untouched
	room, err = f.rooms.GetByID(ctx, other)
	require.NoError(t, err)
	assert.NotNil(t, room)
	sensors, err = f.sensors.ListByRoom(ctx, other)
	require.NoError(t, err)
	assert.Len(t, sensors, 1)
}

func TestDeleteRoom_MissingRoomIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.DeleteRoom(ctx, 42))

	// and deleting twice converges to the same end state
	roomID := f.seedRoom(t, 1, 1)
	require.NoError(t, f.svc.DeleteRoom(ctx, roomID))
	require.NoError(t, f.svc.DeleteRoom(ctx, roomID))
}

func TestDeleteRoom_EmitsCleanupEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	roomID := f.seedRoom(t, 1, 2)

	got := make(chan string, 8)
	for _, event := range []string{"sensors.deleted", "events.deleted", "room.deleted"} {
		event := event
		f.svc.OnCleanup(event, func(id string) {
			got <- event + ":" + id
		})
	}

	require.NoError(t, f.svc.DeleteRoom(ctx, roomID))

	// handlers may run asynchronously
	var events []string
	for i := 0; i < 3; i++ {
		select {
		case e := <-got:
			events = append(events, e)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for cleanup event %d, have %v", i+1, events)
		}
	}
	assert.ElementsMatch(t, []string{
		"sensors.deleted:1",
		"events.deleted:1",
		"room.deleted:1",
	}, events)
}

func TestDeleteRoom_RoomWithoutDependents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	roomID := f.seedRoom(t, 0, 0)

	deps := make(chan string, 8)
	f.svc.OnCleanup("sensors.deleted", func(id string) { deps <- id })
	f.svc.OnCleanup("events.deleted", func(id string) { deps <- id })

	require.NoError(t, f.svc.DeleteRoom(ctx, roomID))

	room, err := f.rooms.GetByID(ctx, roomID)
	require.NoError(t, err)
	assert.Nil(t, room)

	// dependent events only fire when something was actually removed
	select {
	case id := <-deps:
		t.Fatalf("unexpected dependent cleanup event for %s", id)
	case <-time.After(100 * time.Millisecond):
	}
}
