package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

func newClient(id string, topics ...string) *Client {
	return &Client{ID: id, Topics: topics, Send: make(chan []byte, sendBufferSize)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.Send:
		var e Event
		require.NoError(t, json.Unmarshal(msg, &e))
		return e
	case <-time.After(time.Second):
		t.Fatalf("client %s did not receive event", c.ID)
		return Event{}
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(logger.NewNop())
	c := newClient("c1", TopicAll)

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())
	assert.Equal(t, 1, hub.TopicCount(TopicAll))

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.TopicCount(TopicAll))

	_, open := <-c.Send
	assert.False(t, open, "send channel is closed")

	assert.NotPanics(t, func() { hub.Unregister(c) }, "double unregister is a no-op")
}

func TestHub_PublishRoutesBySpecialist(t *testing.T) {
	hub := NewHub(logger.NewNop())
	all := newClient("all", TopicAll)
	own := newClient("own", SpecialistTopic(7))
	other := newClient("other", SpecialistTopic(8))
	for _, c := range []*Client{all, own, other} {
		hub.Register(c)
	}

	err := hub.Publish(context.Background(), Event{Type: "newAppointment", AppointmentID: 1, SpecialistID: 7})
	require.NoError(t, err)

	e := receive(t, all)
	assert.Equal(t, "newAppointment", e.Type)
	assert.Equal(t, TopicAll, e.Topic)

	e = receive(t, own)
	assert.Equal(t, "specialist/7", e.Topic)
	assert.Equal(t, int64(1), e.AppointmentID)

	select {
	case <-other.Send:
		t.Fatal("other specialist must not receive event")
	default:
	}
}

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	hub := NewHub(logger.NewNop())
	c := newClient("c1")
	hub.Register(c)

	hub.ProcessMessage(c, ClientMessage{Action: "subscribe", Topics: []string{"specialist/1", "specialist/1", TopicAll}})
	assert.Equal(t, []string{"specialist/1", TopicAll}, c.Topics)
	assert.Equal(t, 1, hub.TopicCount("specialist/1"))

	hub.ProcessMessage(c, ClientMessage{Action: "unsubscribe", Topics: []string{"specialist/1"}})
	assert.Equal(t, []string{TopicAll}, c.Topics)
	assert.Equal(t, 0, hub.TopicCount("specialist/1"))

	hub.ProcessMessage(c, ClientMessage{Action: "unknown", Topics: []string{"x"}})
	assert.Equal(t, []string{TopicAll}, c.Topics)
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(logger.NewNop())
	c := &Client{ID: "slow", Topics: []string{TopicAll}, Send: make(chan []byte, 1)}
	hub.Register(c)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Broadcast(TopicAll, Event{Type: "appointmentUpdated"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
	assert.Len(t, c.Send, 1)
}

func TestParseTopics(t *testing.T) {
	assert.Equal(t, []string{TopicAll}, parseTopics(""))
	assert.Equal(t, []string{TopicAll}, parseTopics(" , "))
	assert.Equal(t, []string{"specialist/1", "appointments"}, parseTopics("specialist/1, appointments,specialist/1"))
}

func TestHandler_EndToEnd(t *testing.T) {
	hub := NewHub(logger.NewNop())
	srv := httptest.NewServer(NewHandler(hub, logger.NewNop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?topics=specialist/3"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.TopicCount("specialist/3") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), Event{Type: "appointmentRescheduled", SpecialistID: 3, AppointmentID: 42}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var e Event
	require.NoError(t, json.Unmarshal(msg, &e))
	assert.Equal(t, "appointmentRescheduled", e.Type)
	assert.Equal(t, int64(42), e.AppointmentID)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
