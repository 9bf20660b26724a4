package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/events"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
)

// ProfileEventService announces profile lifecycle changes through the event publisher
type ProfileEventService interface {
	NotifyProfileGenerated(ctx context.Context, record *models.SpiritProfileRecord) error
	NotifySpiritDetailsFilled(ctx context.Context, record *models.SpiritProfileRecord) error
}

type profileEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewProfileEventService(eventPublisher events.EventPublisher, logger *slog.Logger) ProfileEventService {
	return &profileEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *profileEventService) NotifyProfileGenerated(ctx context.Context, record *models.SpiritProfileRecord) error {
	s.logger.Info("Publishing profile generated event", "record_id", record.ID, "user_id", record.UserID)

	scores, err := record.Scores()
	if err != nil {
		return fmt.Errorf("failed to decode full scores of record %d: %w", record.ID, err)
	}

	event := events.NewProfileGeneratedEvent(events.ProfileGeneratedEvent{
		RecordID:        record.ID,
		UserID:          record.UserID,
		ProfileCode:     record.ProfileCode,
		PrimaryTrait:    record.PrimaryTrait,
		SecondaryTrait:  record.SecondaryTrait,
		TertiaryTrait:   record.TertiaryTrait,
		MainShadow:      record.MainShadow,
		SecondShadow:    record.SecondShadow,
		FullScores:      scores,
		DurationMinutes: record.TestDurationMinutes,
		GeneratedAt:     record.CreatedAt,
	})
	event.Metadata = map[string]interface{}{"user_id": record.UserID}

	return s.eventPublisher.PublishProfileEvent(ctx, event)
}

func (s *profileEventService) NotifySpiritDetailsFilled(ctx context.Context, record *models.SpiritProfileRecord) error {
	s.logger.Info("Publishing spirit details filled event", "record_id", record.ID, "user_id", record.UserID)

	data := events.SpiritDetailsFilledEvent{
		RecordID:    record.ID,
		UserID:      record.UserID,
		ProfileCode: record.ProfileCode,
		GeneratedAt: time.Now(),
	}
	if record.SpiritTitle != nil {
		data.SpiritTitle = *record.SpiritTitle
	}
	if record.GeneratedBy != nil {
		data.GeneratedBy = *record.GeneratedBy
	}
	if record.GeneratedAt != nil {
		data.GeneratedAt = *record.GeneratedAt
	}

	event := events.NewSpiritDetailsFilledEvent(data)
	event.Metadata = map[string]interface{}{"record_id": strconv.FormatUint(uint64(record.ID), 10)}

	return s.eventPublisher.PublishProfileEvent(ctx, event)
}
