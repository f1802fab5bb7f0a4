package hubservice

import (
	"context"
	"time"

	"github.com/roomsense/hub/internal/cleanup"
	"github.com/roomsense/hub/internal/dashboard"
	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/occupancy"
	"github.com/roomsense/hub/internal/repository"
	"github.com/roomsense/hub/internal/store"

	nuts "github.com/vaudience/go-nuts"
)

// Options carries the service-level knobs the composition root feeds in.
type Options struct {
	ActivityWindow time.Duration
	JWTSecret      string
	TokenTTL       time.Duration
}

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Buildings repository.BuildingRepository
	Rooms     repository.RoomRepository
	Sensors   repository.SensorRepository
	Events    repository.MotionEventRepository
	Users     repository.UserRepository
	Occupancy *occupancy.Engine
	Dashboard *dashboard.Service
	Cleanup   *cleanup.Service

	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// New wires a HubService on top of a single store instance. The store's
// lifecycle stays with the caller; everything here only holds a
// reference.
func New(db store.Store, opts Options) *HubService {
	buildings := repository.NewBuildingRepository(db)
	rooms := repository.NewRoomRepository(db)
	sensors := repository.NewSensorRepository(db)
	events := repository.NewMotionEventRepository(db)
	users := repository.NewUserRepository(db)

	engine := occupancy.New(rooms, events, opts.ActivityWindow)

	svc := &HubService{
		Buildings: buildings,
		Rooms:     rooms,
		Sensors:   sensors,
		Events:    events,
		Users:     users,
		Occupancy: engine,
		Dashboard: dashboard.New(buildings, rooms, events, engine),
		Cleanup:   cleanup.New(rooms, sensors, events),
		jwtSecret: []byte(opts.JWTSecret),
		tokenTTL:  opts.TokenTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
	return svc
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Buildings == nil {
		return ErrMissingRepository("buildings")
	}
	if s.Rooms == nil {
		return ErrMissingRepository("rooms")
	}
	if s.Sensors == nil {
		return ErrMissingRepository("sensors")
	}
	if s.Events == nil {
		return ErrMissingRepository("events")
	}
	if s.Users == nil {
		return ErrMissingRepository("users")
	}
	if s.Occupancy == nil || s.Dashboard == nil || s.Cleanup == nil {
		return errors.NewInternalError("occupancy pipeline not initialized", nil)
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// CreateBuilding creates a building from an admin-supplied field map.
func (s *HubService) CreateBuilding(ctx context.Context, fields store.Fields) (int64, error) {
	if name, _ := fields["building_name"].(string); name == "" {
		return 0, errors.NewValidationError("building_name is required", nil)
	}
	id, err := s.Buildings.Create(ctx, fields)
	if err != nil {
		return 0, err
	}
	nuts.L.Infof("[HubService] Created building %d", id)
	return id, nil
}

// GetBuilding returns a building record, or nil when absent.
func (s *HubService) GetBuilding(ctx context.Context, id int64) (store.Record, error) {
	return s.Buildings.GetByID(ctx, id)
}

// ListBuildings returns all building records.
func (s *HubService) ListBuildings(ctx context.Context) ([]store.Record, error) {
	return s.Buildings.List(ctx)
}

// UpdateBuilding applies fields to an existing building.
func (s *HubService) UpdateBuilding(ctx context.Context, id int64, fields store.Fields) error {
	affected, err := s.Buildings.UpdateByID(ctx, id, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.NewNotFoundError("building not found", nil)
	}
	return nil
}

// DeleteBuilding removes a building. Its rooms are not cascaded; they
// keep rendering with an "Unknown" building name.
func (s *HubService) DeleteBuilding(ctx context.Context, id int64) error {
	affected, err := s.Buildings.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.NewNotFoundError("building not found", nil)
	}
	nuts.L.Infof("[HubService] Deleted building %d", id)
	return nil
}

// CreateRoom creates a classroom after verifying the referenced
// building exists; the accessor itself does not re-validate.
func (s *HubService) CreateRoom(ctx context.Context, fields store.Fields) (int64, error) {
	buildingID, ok := models.Int64(fields["id_building"])
	if !ok {
		return 0, errors.NewValidationError("id_building is required", nil)
	}
	building, err := s.Buildings.GetByID(ctx, buildingID)
	if err != nil {
		return 0, err
	}
	if building == nil {
		return 0, errors.NewNotFoundError("building not found", nil)
	}
	id, err := s.Rooms.Create(ctx, fields)
	if err != nil {
		return 0, err
	}
	nuts.L.Infof("[HubService] Created room %d in building %d", id, buildingID)
	return id, nil
}

// GetRoom returns a classroom record, or nil when absent.
func (s *HubService) GetRoom(ctx context.Context, id int64) (store.Record, error) {
	return s.Rooms.GetByID(ctx, id)
}

// DeleteRoom cascades deletion of a room, its sensors and its motion
// events. Deleting a nonexistent room succeeds without effect.
func (s *HubService) DeleteRoom(ctx context.Context, id int64) error {
	return s.Cleanup.DeleteRoom(ctx, id)
}
