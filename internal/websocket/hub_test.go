package routinews

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/soniarr234/fitlover-back/internal/events"
)

func receive(t *testing.T, client *Client) Frame {
	t.Helper()
	select {
	case payload := <-client.send:
		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return Frame{}
}

func TestHubDeliversOnlyToTheOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	owner := NewClient(hub, nil, 1)
	ownerSecondTab := NewClient(hub, nil, 1)
	stranger := NewClient(hub, nil, 2)
	hub.Register(owner)
	hub.Register(ownerSecondTab)
	hub.Register(stranger)

	event := events.RoutineEvent{Type: events.EntryAdded, UserID: 1, RoutineID: 10, ExerciseID: 3, Position: 1}
	if err := hub.Publish(ctx, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, client := range []*Client{owner, ownerSecondTab} {
		frame := receive(t, client)
		if frame.Type != "routine_event" || frame.Event == nil {
			t.Fatalf("unexpected frame %+v", frame)
		}
		if frame.Event.RoutineID != 10 || frame.Event.Type != events.EntryAdded {
			t.Fatalf("unexpected event %+v", frame.Event)
		}
	}

	select {
	case payload := <-stranger.send:
		t.Fatalf("stranger received %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	client := NewClient(hub, nil, 1)
	hub.Register(client)
	hub.Unregister(client)

	waitClosed(t, client)
}

func waitClosed(t *testing.T, client *Client) {
	t.Helper()
	select {
	case <-client.done:
	case <-time.After(time.Second):
		t.Fatal("client was not closed")
	}
}

func TestReplyAfterSlowConsumerDropDoesNotPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	client := NewClient(hub, nil, 1)
	hub.Register(client)

	for i := 0; i < cap(client.send)+8; i++ {
		if err := hub.Publish(ctx, events.RoutineEvent{Type: events.EntryAdded, UserID: 1, RoutineID: int64(i + 1)}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	waitClosed(t, client)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("reply panicked after the hub dropped the client: %v", r)
		}
	}()
	for i := 0; i < 3; i++ {
		client.reply(Frame{Type: "pong"})
	}
}

func TestReplyOnFullBufferUnregistersOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	client := NewClient(hub, nil, 1)
	hub.Register(client)
	for i := 0; i < cap(client.send); i++ {
		client.send <- []byte("{}")
	}

	client.reply(Frame{Type: "pong"})
	waitClosed(t, client)

	// A second overflow and a late unregister hit an already closed client.
	client.reply(Frame{Type: "pong"})
	hub.Unregister(client)
}

func TestStoppedHubDoesNotBlockCallers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	registered := NewClient(hub, nil, 1)
	hub.Register(registered)
	cancel()
	<-stopped
	waitClosed(t, registered)

	finished := make(chan struct{})
	late := NewClient(hub, nil, 2)
	go func() {
		hub.Register(late)
		hub.Unregister(registered)
		_ = hub.Publish(context.Background(), events.RoutineEvent{UserID: 2})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after Run returned")
	}
	waitClosed(t, late)
}

func TestHubPublishRespectsContext(t *testing.T) {
	hub := NewHub(nil)
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- events.RoutineEvent{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := hub.Publish(ctx, events.RoutineEvent{UserID: 1}); err == nil {
		t.Fatal("expected error when the hub is saturated and ctx is done")
	}
}
