package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"teamboard/internal/events"
	"teamboard/internal/logger"
	"teamboard/testing/testnats"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop(t *testing.T) {
	assert.NoError(t, events.Nop().Publish(context.Background(), events.Event{Type: events.ProjectCreated}))
}

func TestNATSPublisher(t *testing.T) {
	natsContainer := testnats.SetupSharedNATS(t)
	defer natsContainer.Cleanup(t)

	publisher, err := events.NewNATSPublisher(natsContainer.URL, "teamboard", logger.Discard())
	require.NoError(t, err)
	defer publisher.Close()

	t.Run("Subject", func(t *testing.T) {
		assert.Equal(t, "teamboard.project.user_assigned", publisher.Subject(events.ProjectUserAssigned))
	})

	t.Run("HealthCheck", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		assert.NoError(t, publisher.HealthCheck(ctx))
	})

	t.Run("PublishDeliversJSON", func(t *testing.T) {
		conn := natsContainer.Connect(t)

		received := make(chan *nats.Msg, 1)
		sub, err := conn.ChanSubscribe("teamboard.>", received)
		require.NoError(t, err)
		defer sub.Unsubscribe()
		require.NoError(t, conn.Flush())

		err = publisher.Publish(context.Background(), events.Event{
			Type:      events.ProjectUserAssigned,
			ProjectID: 1,
			UserID:    2,
			Role:      "manager",
		})
		require.NoError(t, err)

		select {
		case msg := <-received:
			assert.Equal(t, "teamboard.project.user_assigned", msg.Subject)

			var event events.Event
			require.NoError(t, json.Unmarshal(msg.Data, &event))
			assert.Equal(t, events.ProjectUserAssigned, event.Type)
			assert.Equal(t, 1, event.ProjectID)
			assert.Equal(t, 2, event.UserID)
			assert.Equal(t, "manager", event.Role)
			assert.False(t, event.OccurredAt.IsZero())
		case <-time.After(5 * time.Second):
			t.Fatal("event was not delivered")
		}
	})
}
