// FilePath: internal/models/models.go
package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/roomsense/hub/internal/store"
)

// Collection names used by the repositories.
const (
	CollectionBuildings    = "buildings"
	CollectionRooms        = "classrooms"
	CollectionSensors      = "sensors"
	CollectionMotionEvents = "classroom_motion_events"
	CollectionUsers        = "users"
)

// User roles.
const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// BuildingCard is the per-building summary rendered on the home screen.
type BuildingCard struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	AvailableRooms int    `json:"availableRooms"`
	TotalRooms     int    `json:"totalRooms"`
	Floors         int64  `json:"floors"`
	Color          string `json:"color"`
}

// RecentSpace is one deduplicated entry of the recent-activity list.
// Status is either "available" or "busy", evaluated when the list is
// built, not when the event happened.
type RecentSpace struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building"`
	Status   string `json:"status"`
}

// AvailableRoom is one entry of the available-now list, sorted by
// (floor, name).
type AvailableRoom struct {
	Name     string `json:"name"`
	Building string `json:"building"`
	Floor    int64  `json:"floor"`
}

// Int64 coerces the loosely-typed values a record can hold (driver
// integers, JSON floats, numeric strings) into an int64.
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		// full-string parse: a corrupt id like "1.5" must not alias
		// room 1
		if parsed, err := strconv.ParseInt(n, 10, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// String coerces a record value into a string; nil yields "".
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

// Time coerces a record value into a time.Time. It accepts time.Time
// directly and the textual layouts both backends can produce.
func Time(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05.999999999",
			"2006-01-02 15:04:05",
		} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// BuildingDisplayName resolves a building's display name, falling back
// to a synthesized "Building {id}" label.
func BuildingDisplayName(building store.Record) string {
	if building == nil {
		return "Unknown"
	}
	if name := String(building["building_name"]); name != "" {
		return name
	}
	if name := String(building["name"]); name != "" {
		return name
	}
	if id, ok := Int64(building["id"]); ok {
		return fmt.Sprintf("Building %d", id)
	}
	return "Unknown"
}

// RoomLabel resolves a room's display label from class_number, falling
// back to the room id.
func RoomLabel(room store.Record) string {
	if label := String(room["class_number"]); label != "" {
		return fmt.Sprintf("Room %s", label)
	}
	if label := String(room["number"]); label != "" {
		return fmt.Sprintf("Room %s", label)
	}
	if id, ok := Int64(room["id"]); ok {
		return fmt.Sprintf("Room %d", id)
	}
	return "Room"
}

// IndexByID indexes records by their integer id, skipping records whose
// id is missing or malformed.
func IndexByID(rows []store.Record) map[int64]store.Record {
	byID := make(map[int64]store.Record, len(rows))
	for _, row := range rows {
		id, ok := Int64(row["id"])
		if !ok {
			continue
		}
		byID[id] = row
	}
	return byID
}
