// FilePath: internal/cleanup/cleanup.go
package cleanup

import (
	"context"
	"fmt"

	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/repository"
)

// Service coordinates deletion of hierarchical data. Deleting a room
// must leave zero sensors and zero motion events referencing it; that
// guarantee lives here, not in the database schema.
type Service struct {
	rooms   repository.RoomRepository
	sensors repository.SensorRepository
	events  repository.MotionEventRepository
	emitter *nuts.EventEmitter
}

// New creates a new cleanup Service.
func New(
	rooms repository.RoomRepository,
	sensors repository.SensorRepository,
	events repository.MotionEventRepository,
) *Service {
	return &Service{
		rooms:   rooms,
		sensors: sensors,
		events:  events,
		emitter: nuts.NewEventEmitter(),
	}
}

// DeleteRoom removes a room together with its dependent rows: sensors
// first, then motion events, then the room itself. Deleting a room that
// does not exist is a no-op success, so the whole cascade can be
// re-invoked after a partial failure and converges — every step is a
// scoped bulk delete.
func (s *Service) DeleteRoom(ctx context.Context, roomID int64) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to look up room: %w", err)
	}
	if room == nil {
		nuts.L.Debugf("[Cleanup] Room %d already gone, nothing to do", roomID)
		return nil
	}

	sensors, err := s.sensors.DeleteByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete sensors for room %d: %w", roomID, err)
	}
	if sensors > 0 {
		s.notify("sensors.deleted", roomID)
	}

	events, err := s.events.DeleteByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete motion events for room %d: %w", roomID, err)
	}
	if events > 0 {
		s.notify("events.deleted", roomID)
	}

	if _, err := s.rooms.DeleteByID(ctx, roomID); err != nil {
		return fmt.Errorf("failed to delete room %d: %w", roomID, err)
	}

	nuts.L.Infof("[Cleanup] Room %d deleted (%d sensors, %d events)", roomID, sensors, events)
	s.notify("room.deleted", roomID)
	return nil
}

// notify emits a cleanup event; notifications are best-effort and must
// never fail the cascade.
func (s *Service) notify(event string, roomID int64) {
	if err := s.emitter.Emit(event, fmt.Sprint(roomID)); err != nil {
		nuts.L.Warnf("[Cleanup] Failed to emit %s for room %d: %v", event, roomID, err)
	}
}

// OnCleanup registers a callback for cleanup events. The listener's
// signature must match the emitted argument exactly, so the handler is
// registered as a plain func(string).
func (s *Service) OnCleanup(event string, handler func(id string)) {
	if _, err := s.emitter.On(event, "cleanup_handler", handler); err != nil {
		nuts.L.Warnf("[Cleanup] Failed to register handler for %s: %v", event, err)
	}
}
