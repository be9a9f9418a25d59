package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		conn: nil,
		send: make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c1, c2 := mockClient(hub), mockClient(hub)

	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c2)
	hub.Unregister(c2) // should not panic
	assert.Equal(t, 0, hub.ClientCount())
}

func TestBroadcast_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c)

	for i := 0; i < sendBufferSize+5; i++ {
		hub.Broadcast(Message{Type: "checkin.admitted"})
	}

	assert.Len(t, c.send, sendBufferSize)
}

func TestEventPublisher_PublishesDomainEvent(t *testing.T) {
	// Arrange
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c)
	publisher := NewEventPublisher(hub)

	memberID, staffID := member.NewMemberID(), member.NewMemberID()
	at := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	event := member.NewCheckInAdmittedEvent(memberID, staffID, "alice", at)

	// Act
	require.NoError(t, publisher.Publish(event))

	// Assert
	select {
	case data := <-c.send:
		var got Message
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "checkin.admitted", got.Type)
		assert.Equal(t, memberID.String(), got.AggregateID)
		assert.Equal(t, "alice", got.Data["username"])
		assert.True(t, got.OccurredAt.Equal(at))
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast message")
	}
}

func TestEventPublisher_NoClients(t *testing.T) {
	publisher := NewEventPublisher(NewHub(slog.Default()))

	err := publisher.PublishBatch([]shared.DomainEvent{
		member.NewMembershipDeactivatedEvent(member.NewMemberID(), member.ReasonExpired, time.Now()),
	})

	assert.NoError(t, err)
}
