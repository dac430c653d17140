package live

import (
	"encoding/json"
	"log"
	"io"
	"testing"
	"time"
)

func testHub() *Hub {
	return NewHub(log.New(io.Discard, "", 0))
}

func testClient(hub *Hub, tournamentID string) *Client {
	c := &Client{hub: hub, send: make(chan []byte, 64), tournamentID: tournamentID}
	return c
}

func TestBroadcastOnlyReachesSubscribedTournament(t *testing.T) {
	hub := testHub()
	go hub.Run()

	clientA := testClient(hub, "t1")
	clientB := testClient(hub, "t2")
	hub.register <- clientA
	hub.register <- clientB
	time.Sleep(10 * time.Millisecond)

	hub.PublishAssigned("t1", AssignedPayload{MatchID: "m1", Category: "cat", Time: "08:00", Court: "Court 1"})

	select {
	case <-clientA.send:
	case <-time.After(time.Second):
		t.Fatal("subscriber to t1 did not receive the event")
	}

	select {
	case <-clientB.send:
		t.Fatal("subscriber to t2 should not receive t1's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishClearedBroadcastsNilData(t *testing.T) {
	hub := testHub()
	go hub.Run()

	client := testClient(hub, "t1")
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.PublishCleared("t1")

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Fatal("expected a non-empty JSON payload")
		}
		var ev struct {
			Type string      `json:"type"`
			Data interface{} `json:"data"`
		}
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if ev.Type != "cleared" || ev.Data != nil {
			t.Fatalf("expected a cleared event with null data, got type %q data %v", ev.Type, ev.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive cleared event")
	}
}

func TestUnregisterRemovesClientFromTournament(t *testing.T) {
	hub := testHub()
	go hub.Run()

	client := testClient(hub, "t1")
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, subscribed := hub.tournaments["t1"]
	hub.mu.RUnlock()
	if subscribed {
		t.Fatal("tournament entry should be cleaned up once its last client unregisters")
	}
}
