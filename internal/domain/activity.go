package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action is the verb of a recorded activity.
type Action string

const (
	ActionLogin    Action = "LOGIN"
	ActionLogout   Action = "LOGOUT"
	ActionRegister Action = "REGISTER"
	ActionCreate   Action = "CREATE"
	ActionUpdate   Action = "UPDATE"
	ActionDelete   Action = "DELETE"
	ActionView     Action = "VIEW"
	ActionExport   Action = "EXPORT"
	ActionImport   Action = "IMPORT"

	// Domain-specific variants used by the fleet CRUD handlers.
	ActionTruckCreate       Action = "TRUCK_CREATE"
	ActionTruckUpdate       Action = "TRUCK_UPDATE"
	ActionTruckDelete       Action = "TRUCK_DELETE"
	ActionMaintenanceCreate Action = "MAINTENANCE_CREATE"
	ActionMaintenanceUpdate Action = "MAINTENANCE_UPDATE"
	ActionTireCreate        Action = "TIRE_CREATE"
)

// EntityType is the noun an activity acted on.
type EntityType string

const (
	EntityUser        EntityType = "USER"
	EntityTruck       EntityType = "TRUCK"
	EntityTrailer     EntityType = "TRAILER"
	EntityMaintenance EntityType = "MAINTENANCE"
	EntityTire        EntityType = "TIRE"
	EntityVehicle     EntityType = "VEHICLE"
	EntityDocument    EntityType = "DOCUMENT"
	EntityReport      EntityType = "REPORT"
	EntitySettings    EntityType = "SETTINGS"
	EntitySystem      EntityType = "SYSTEM"
)

// ActivityRecord is one immutable entry in the user activity feed. Records
// are created once and never mutated or deleted by this service.
type ActivityRecord struct {
	ID         uuid.UUID           `json:"id"`
	UserID     string              `json:"user_id"`
	Action     Action              `json:"action"`
	EntityType EntityType          `json:"entity_type"`
	EntityID   string              `json:"entity_id,omitempty"`
	EntityName string              `json:"entity_name,omitempty"`
	OldValues  map[string]any      `json:"old_values,omitempty"`
	NewValues  map[string]any      `json:"new_values,omitempty"`
	Metadata   map[string]any      `json:"metadata,omitempty"`
	IPAddress  string              `json:"ip_address"`
	Device     DeviceDescriptor    `json:"device"`
	Location   *LocationDescriptor `json:"location,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ActivityInput carries the caller-supplied part of an activity; enrichment
// is attached by the recorder.
type ActivityInput struct {
	UserID     string
	Action     Action
	EntityType EntityType
	EntityID   string
	EntityName string
	OldValues  map[string]any
	NewValues  map[string]any
	Metadata   map[string]any
}

// ActivityFilter narrows activity queries. All fields combine with AND.
// The date range is inclusive at both ends.
type ActivityFilter struct {
	UserID     *string
	Action     *Action
	EntityType *EntityType
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

type ActivityRepository interface {
	Create(ctx context.Context, rec *ActivityRecord) error
	List(ctx context.Context, filter ActivityFilter) ([]*ActivityRecord, int, error)
}
