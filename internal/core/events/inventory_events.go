package events

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/asset-inventory/internal/metrics"
	"github.com/google/uuid"
)

const (
	EventTypeAssetCreated    = "asset.created"
	EventTypeAssetUpdated    = "asset.updated"
	EventTypeAssetDeleted    = "asset.deleted"
	EventTypeEmployeeCreated = "employee.created"
	EventTypeEmployeeDeleted = "employee.deleted"
)

// InventoryTypes lists every event type published by the inventory services.
var InventoryTypes = []string{
	EventTypeAssetCreated,
	EventTypeAssetUpdated,
	EventTypeAssetDeleted,
	EventTypeEmployeeCreated,
	EventTypeEmployeeDeleted,
}

// InventoryChangedEvent records one committed write to an asset or employee.
type InventoryChangedEvent struct {
	BaseEvent
	Entity    string `json:"entity"`
	Operation string `json:"operation"`
	EntityID  int64  `json:"entity_id"`
	UserID    int64  `json:"user_id"`
}

// NewInventoryChangedEvent builds the event for eventType, which must be one
// of InventoryTypes ("asset.created" splits into entity asset, operation create).
func NewInventoryChangedEvent(eventType string, entityID, userID int64) *InventoryChangedEvent {
	entity, operation := splitType(eventType)
	return &InventoryChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entity_id": entityID,
				"user_id":   userID,
			},
		},
		Entity:    entity,
		Operation: operation,
		EntityID:  entityID,
		UserID:    userID,
	}
}

func splitType(eventType string) (string, string) {
	entity, past, _ := strings.Cut(eventType, ".")
	return entity, strings.TrimSuffix(past, "d")
}

// RegisterInventorySubscribers attaches the change log and the write counter
// to every inventory event type.
func RegisterInventorySubscribers(bus *EventBus, logger *slog.Logger) {
	for _, t := range InventoryTypes {
		bus.Subscribe(t, changeLog(logger))
		bus.Subscribe(t, recordWrite)
	}
}

func changeLog(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		e, ok := event.(*InventoryChangedEvent)
		if !ok {
			return nil
		}
		logger.InfoContext(ctx, "inventory changed",
			"event_id", e.ID,
			"entity", e.Entity,
			"operation", e.Operation,
			"entity_id", e.EntityID,
			"user_id", e.UserID)
		return nil
	}
}

func recordWrite(_ context.Context, event Event) error {
	if e, ok := event.(*InventoryChangedEvent); ok {
		metrics.RecordWrite(e.Entity, e.Operation)
	}
	return nil
}
