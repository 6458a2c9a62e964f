// Package audit turns published domain events into audit log records.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/example/inventory-api/internal/event"
)

// Handler writes one log record per event read from the topic.
type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With("component", "audit")}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, _, value []byte) error {
	var e event.Event
	if err := json.Unmarshal(value, &e); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	attrs := []any{
		"event_id", e.ID,
		"type", e.Type,
		"user_id", e.UserID,
		"at", e.Timestamp,
	}

	details, err := payloadAttrs(e)
	if err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", e.Type, err)
	}
	attrs = append(attrs, details...)

	h.logger.InfoContext(ctx, "audit", attrs...)
	return nil
}

func payloadAttrs(e event.Event) ([]any, error) {
	switch e.Type {
	case event.TypeUserRegistered:
		var p event.UserRegistered
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return []any{"username", p.Username, "email", p.Email}, nil

	case event.TypeUserLoggedIn:
		var p event.UserLoggedIn
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return []any{"username", p.Username}, nil

	case event.TypeItemAdded:
		var p event.ItemAdded
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return []any{"item_id", p.ItemID, "name", p.Name, "quantity", p.Quantity}, nil

	case event.TypeItemQuantityUpdated:
		var p event.ItemQuantityUpdated
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return []any{"item_id", p.ItemID, "quantity", p.Quantity}, nil

	case event.TypeItemDeleted:
		var p event.ItemDeleted
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return []any{"item_id", p.ItemID}, nil
	}

	// unknown types are still recorded, without details
	return nil, nil
}
