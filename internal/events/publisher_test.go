package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatermillPublisher_PublishProfileEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "spirit-profiles")
	require.NoError(t, err)

	publisher := newWatermillEventPublisher(pubSub, "spirit-profiles", discardLogger())
	event := NewProfileGeneratedEvent(ProfileGeneratedEvent{
		RecordID:     7,
		UserID:       "user-1",
		ProfileCode:  "P000003005_0407_1004519",
		PrimaryTrait: "ATH",
		FullScores:   map[string]int{"ATH": 100},
	})
	require.NoError(t, publisher.PublishProfileEvent(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventProfileGenerated), msg.Metadata.Get("event_type"))
		assert.Equal(t, "spirit-profile-service", msg.Metadata.Get("source"))
		assert.Equal(t, "1.0", msg.Metadata.Get("version"))

		var decoded struct {
			Type EventType             `json:"type"`
			Data ProfileGeneratedEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventProfileGenerated, decoded.Type)
		assert.Equal(t, uint(7), decoded.Data.RecordID)
		assert.Equal(t, "P000003005_0407_1004519", decoded.Data.ProfileCode)
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(discardLogger())

	a := NewSpiritDetailsFilledEvent(SpiritDetailsFilledEvent{RecordID: 1, SpiritTitle: "Dawn"})
	b := NewProfileGeneratedEvent(ProfileGeneratedEvent{RecordID: 2})
	require.NoError(t, publisher.PublishProfileEvent(context.Background(), a))
	require.NoError(t, publisher.PublishProfileEvent(context.Background(), b))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventSpiritDetailsFilled, published[0].Type)
	assert.Equal(t, EventProfileGenerated, published[1].Type)
	assert.NotEqual(t, published[0].ID, published[1].ID)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
	assert.NoError(t, publisher.Close())
}
