package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of profile events the service emits
type EventType string

const (
	EventProfileGenerated    EventType = "profile.generated"
	EventSpiritDetailsFilled EventType = "spirit.details_filled"
)

const (
	eventSource  = "spirit-profile-service"
	eventVersion = "1.0"
)

// ProfileEvent is the envelope for every event published by the service
type ProfileEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type ProfileGeneratedEvent struct {
	RecordID        uint           `json:"record_id"`
	UserID          string         `json:"user_id"`
	ProfileCode     string         `json:"profile_code"`
	PrimaryTrait    string         `json:"primary_trait"`
	SecondaryTrait  string         `json:"secondary_trait"`
	TertiaryTrait   string         `json:"tertiary_trait"`
	MainShadow      string         `json:"main_shadow"`
	SecondShadow    string         `json:"second_shadow"`
	FullScores      map[string]int `json:"full_scores"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

type SpiritDetailsFilledEvent struct {
	RecordID    uint      `json:"record_id"`
	UserID      string    `json:"user_id"`
	ProfileCode string    `json:"profile_code"`
	SpiritTitle string    `json:"spirit_title"`
	GeneratedBy string    `json:"generated_by"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Event factory functions

func NewProfileGeneratedEvent(data ProfileGeneratedEvent) *ProfileEvent {
	return newEvent(EventProfileGenerated, data)
}

func NewSpiritDetailsFilledEvent(data SpiritDetailsFilledEvent) *ProfileEvent {
	return newEvent(EventSpiritDetailsFilled, data)
}

func newEvent(eventType EventType, data interface{}) *ProfileEvent {
	return &ProfileEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func GenerateEventID() string {
	return uuid.NewString()
}
