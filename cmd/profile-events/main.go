// Command profile-events tails the profile topic and logs every event the
// service publishes. It is a development aid for checking event wiring.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/spirit-profile-service/internal/config"
	"github.com/SAP-F-2025/spirit-profile-service/internal/events"
	"github.com/SAP-F-2025/spirit-profile-service/internal/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("profile-events stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := utils.ToSlogLogger(utils.NewLogger(cfg.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	subscriber, err := cfg.Events.CreateEventSubscriber(logger)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	defer func() {
		if err := subscriber.Close(); err != nil {
			logger.Error("Failed to close subscriber", "error", err)
		}
	}()

	handle := func(ctx context.Context, event *events.ProfileEvent) error {
		switch data := event.Data.(type) {
		case events.ProfileGeneratedEvent:
			logger.InfoContext(ctx, "Profile generated",
				"event_id", event.ID,
				"record_id", data.RecordID,
				"user_id", data.UserID,
				"profile_code", data.ProfileCode,
				"primary_trait", data.PrimaryTrait)
		case events.SpiritDetailsFilledEvent:
			logger.InfoContext(ctx, "Spirit details filled",
				"event_id", event.ID,
				"record_id", data.RecordID,
				"spirit_title", data.SpiritTitle,
				"generated_by", data.GeneratedBy)
		}
		return nil
	}

	logger.Info("Tailing profile events", "topic", cfg.Events.ProfileTopic)
	if err := events.Consume(ctx, subscriber, cfg.Events.ProfileTopic, handle, logger); err != nil {
		return fmt.Errorf("consumer stopped: %w", err)
	}
	return nil
}
