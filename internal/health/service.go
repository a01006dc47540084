package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Broadcaster sends websocket messages.
type Broadcaster interface {
	Broadcast(msgType string, payload any)
}

// Checker probes one upstream dependency.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Service keeps the last known state of each upstream. State is in memory
// and resets on restart.
type Service struct {
	items       map[HealthCategory]map[string]*HealthItem
	mu          sync.RWMutex
	broadcaster Broadcaster
	logger      zerolog.Logger
}

// NewService creates a new health service.
func NewService(logger zerolog.Logger) *Service {
	s := &Service{
		items:  make(map[HealthCategory]map[string]*HealthItem),
		logger: logger.With().Str("component", "health").Logger(),
	}
	for _, cat := range AllCategories() {
		s.items[cat] = make(map[string]*HealthItem)
	}
	return s
}

// SetBroadcaster sets the websocket broadcaster for status changes.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// RegisterItem adds an item with OK status.
func (s *Service) RegisterItem(category HealthCategory, id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[category][id] = &HealthItem{
		ID:       id,
		Category: category,
		Name:     name,
		Status:   StatusOK,
	}
}

// SetError marks an item failed.
func (s *Service) SetError(category HealthCategory, id, message string) {
	s.setStatus(category, id, StatusError, message)
}

// ClearStatus marks an item OK.
func (s *Service) ClearStatus(category HealthCategory, id string) {
	s.setStatus(category, id, StatusOK, "")
}

// Check runs checker and records the outcome for the item.
func (s *Service) Check(ctx context.Context, category HealthCategory, id string, checker Checker) error {
	if err := checker.Ping(ctx); err != nil {
		s.SetError(category, id, err.Error())
		return err
	}
	s.ClearStatus(category, id)
	return nil
}

func (s *Service) setStatus(category HealthCategory, id string, status HealthStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[category][id]
	if !ok {
		return
	}

	changed := item.Status != status || item.Message != message
	item.Status = status
	item.Message = message
	if status == StatusOK {
		item.Timestamp = nil
	} else if changed {
		now := time.Now()
		item.Timestamp = &now
	}

	if !changed {
		return
	}

	if status == StatusOK {
		s.logger.Info().Str("category", string(category)).Str("id", id).Msg("Upstream recovered")
	} else {
		s.logger.Warn().Str("category", string(category)).Str("id", id).Str("message", message).Msg("Upstream unhealthy")
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(MessageTypeHealthUpdate, *item)
	}
}

// Item returns one tracked item.
func (s *Service) Item(category HealthCategory, id string) (HealthItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[category][id]
	if !ok {
		return HealthItem{}, false
	}
	return *item, true
}

// GetAll returns every item grouped by category.
func (s *Service) GetAll() HealthResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := HealthResponse{
		Gateway:  s.list(CategoryGateway),
		Metadata: s.list(CategoryMetadata),
		Healthy:  true,
	}
	for _, items := range s.items {
		for _, item := range items {
			if item.Status != StatusOK {
				resp.Healthy = false
			}
		}
	}
	return resp
}

func (s *Service) list(category HealthCategory) []HealthItem {
	items := make([]HealthItem, 0, len(s.items[category]))
	for _, item := range s.items[category] {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
