// FilePath: internal/dashboard/dashboard.go

// Package dashboard shapes the view-models the presentation layer
// renders: building summary cards, the deduplicated recent-activity
// list and the sorted available-now list. All joins happen in memory
// over fresh snapshots; a stale or missing relation degrades to a
// fallback label instead of failing the whole view.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/occupancy"
	"github.com/roomsense/hub/internal/repository"
	"github.com/roomsense/hub/internal/store"
)

// recentBatchFloor is the minimum event batch fetched for the
// recent-spaces view; the batch is oversampled at 10x the requested
// limit to absorb duplicate events per room.
const recentBatchFloor = 20

// Service builds the home-screen view-models.
type Service struct {
	buildings repository.BuildingRepository
	rooms     repository.RoomRepository
	events    repository.MotionEventRepository
	occupancy *occupancy.Engine
}

// New creates a dashboard service.
func New(
	buildings repository.BuildingRepository,
	rooms repository.RoomRepository,
	events repository.MotionEventRepository,
	engine *occupancy.Engine,
) *Service {
	return &Service{
		buildings: buildings,
		rooms:     rooms,
		events:    events,
		occupancy: engine,
	}
}

// BuildingCards returns one summary card per building with total and
// currently-available room counts.
func (s *Service) BuildingCards(ctx context.Context) ([]models.BuildingCard, error) {
	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	availableIDs, err := s.occupancy.AvailableRoomIDs(ctx)
	if err != nil {
		return nil, err
	}

	roomsByBuilding := indexRoomsByBuilding(rooms)

	cards := make([]models.BuildingCard, 0, len(buildings))
	for _, b := range buildings {
		id, _ := models.Int64(b["id"])
		buildingRooms := roomsByBuilding[id]

		available := 0
		for _, room := range buildingRooms {
			if rid, ok := models.Int64(room["id"]); ok {
				if _, isAvailable := availableIDs[rid]; isAvailable {
					available++
				}
			}
		}

		floors, _ := models.Int64(b["floors"])
		color := models.String(b["color"])
		if color == "" {
			color = "#000"
		}

		cards = append(cards, models.BuildingCard{
			ID:             id,
			Name:           models.BuildingDisplayName(b),
			AvailableRooms: available,
			TotalRooms:     len(buildingRooms),
			Floors:         floors,
			Color:          color,
		})
	}
	return cards, nil
}

// RecentSpaces returns up to limit distinct recently-active rooms, most
// recent first. Events are oversampled and deduplicated by room; the
// first occurrence per room wins. Status reflects the availability set
// at the time this list is built, not at event time.
func (s *Service) RecentSpaces(ctx context.Context, limit int) ([]models.RecentSpace, error) {
	if limit <= 0 {
		return []models.RecentSpace{}, nil
	}

	batch := limit * 10
	if batch < recentBatchFloor {
		batch = recentBatchFloor
	}
	events, err := s.events.ListRecent(ctx, batch)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, err
	}
	availableIDs, err := s.occupancy.AvailableRoomIDs(ctx)
	if err != nil {
		return nil, err
	}

	roomsByID := models.IndexByID(rooms)
	buildingsByID := models.IndexByID(buildings)

	seen := map[int64]struct{}{}
	items := make([]models.RecentSpace, 0, limit)

	for _, ev := range events {
		roomID, ok := models.Int64(ev["classroom_id"])
		if !ok {
			continue
		}
		if _, dup := seen[roomID]; dup {
			continue
		}
		seen[roomID] = struct{}{}

		room := roomsByID[roomID]
		name := fmt.Sprintf("Room %d", roomID)
		building := "Unknown"
		if room != nil {
			name = models.RoomLabel(room)
			if bid, ok := models.Int64(room["id_building"]); ok {
				if b := buildingsByID[bid]; b != nil {
					building = models.BuildingDisplayName(b)
				}
			}
		}

		status := "busy"
		if _, isAvailable := availableIDs[roomID]; isAvailable {
			status = "available"
		}

		items = append(items, models.RecentSpace{
			ID:       roomID,
			Name:     name,
			Building: building,
			Status:   status,
		})
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// AvailableNow returns up to limit available rooms sorted ascending by
// floor, with the room label breaking ties lexicographically.
func (s *Service) AvailableNow(ctx context.Context, limit int) ([]models.AvailableRoom, error) {
	if limit <= 0 {
		return []models.AvailableRoom{}, nil
	}

	rooms, err := s.occupancy.AvailableRooms(ctx)
	if err != nil {
		return nil, err
	}
	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, err
	}
	buildingsByID := models.IndexByID(buildings)

	available := make([]models.AvailableRoom, 0, len(rooms))
	for _, room := range rooms {
		building := "Unknown"
		if bid, ok := models.Int64(room["id_building"]); ok {
			if b := buildingsByID[bid]; b != nil {
				building = models.BuildingDisplayName(b)
			}
		}
		floor, _ := models.Int64(room["floor"])

		available = append(available, models.AvailableRoom{
			Name:     models.RoomLabel(room),
			Building: building,
			Floor:    floor,
		})
	}

	sort.SliceStable(available, func(i, j int) bool {
		if available[i].Floor != available[j].Floor {
			return available[i].Floor < available[j].Floor
		}
		return available[i].Name < available[j].Name
	})

	if limit < len(available) {
		available = available[:limit]
	}
	return available, nil
}

// BuildingsWithRooms returns every building enriched with its rooms,
// each room carrying an is_available flag.
func (s *Service) BuildingsWithRooms(ctx context.Context) ([]store.Record, error) {
	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	availableIDs, err := s.occupancy.AvailableRoomIDs(ctx)
	if err != nil {
		return nil, err
	}

	roomsByBuilding := indexRoomsByBuilding(rooms)

	result := make([]store.Record, 0, len(buildings))
	for _, b := range buildings {
		id, _ := models.Int64(b["id"])
		enriched := b.Clone()
		enriched["rooms"] = enrichRooms(roomsByBuilding[id], availableIDs)
		result = append(result, enriched)
	}
	return result, nil
}

// BuildingWithRooms returns one building enriched with its rooms, or
// nil when the building does not exist.
func (s *Service) BuildingWithRooms(ctx context.Context, buildingID int64) (store.Record, error) {
	building, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, nil
	}

	rooms, err := s.rooms.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	availableIDs, err := s.occupancy.AvailableRoomIDs(ctx)
	if err != nil {
		return nil, err
	}

	enriched := building.Clone()
	enriched["rooms"] = enrichRooms(rooms, availableIDs)
	return enriched, nil
}

func enrichRooms(rooms []store.Record, availableIDs map[int64]struct{}) []store.Record {
	enriched := make([]store.Record, 0, len(rooms))
	for _, room := range rooms {
		rc := room.Clone()
		isAvailable := false
		if id, ok := models.Int64(room["id"]); ok {
			_, isAvailable = availableIDs[id]
		}
		rc["is_available"] = isAvailable
		enriched = append(enriched, rc)
	}
	return enriched
}

func indexRoomsByBuilding(rooms []store.Record) map[int64][]store.Record {
	byBuilding := map[int64][]store.Record{}
	for _, room := range rooms {
		bid, ok := models.Int64(room["id_building"])
		if !ok {
			continue
		}
		byBuilding[bid] = append(byBuilding[bid], room)
	}
	return byBuilding
}
