package health

import (
	"encoding/json"
	"time"
)

// HealthStatus represents the health state of an item.
type HealthStatus string

const (
	StatusOK    HealthStatus = "ok"
	StatusError HealthStatus = "error"
)

// HealthCategory represents the category of health items.
type HealthCategory string

const (
	// CategoryGateway tracks the search gateway as seen by the frontend.
	CategoryGateway HealthCategory = "gateway"
	// CategoryMetadata tracks TMDB as seen by the gateway.
	CategoryMetadata HealthCategory = "metadata"
)

// AllCategories returns all health categories in display order.
func AllCategories() []HealthCategory {
	return []HealthCategory{CategoryGateway, CategoryMetadata}
}

// HealthItem represents a single health-tracked item.
type HealthItem struct {
	ID        string         `json:"id"`
	Category  HealthCategory `json:"category"`
	Name      string         `json:"name"`
	Status    HealthStatus   `json:"status"`
	Message   string         `json:"message,omitempty"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
}

// MarshalJSON omits the message and timestamp of OK items.
func (h HealthItem) MarshalJSON() ([]byte, error) {
	type Alias HealthItem
	alias := Alias(h)

	if h.Status == StatusOK {
		alias.Timestamp = nil
		alias.Message = ""
	}

	return json.Marshal(alias)
}

// HealthResponse contains all health items grouped by category.
type HealthResponse struct {
	Gateway  []HealthItem `json:"gateway"`
	Metadata []HealthItem `json:"metadata"`
	Healthy  bool         `json:"healthy"`
}

// MessageTypeHealthUpdate is the websocket message type for status changes.
const MessageTypeHealthUpdate = "health:update"
