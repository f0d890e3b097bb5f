package hub

import "testing"

func TestBroadcastMatchesHall(t *testing.T) {
	h := New()

	hallA := &Client{ID: "a", Send: make(chan []byte, 1), Subscription: Subscription{EventID: "e1", Hall: "Hall A"}}
	hallB := &Client{ID: "b", Send: make(chan []byte, 1), Subscription: Subscription{EventID: "e1", Hall: "Hall B"}}
	all := &Client{ID: "c", Send: make(chan []byte, 1), Subscription: Subscription{EventID: "e1"}}
	h.Register(hallA)
	h.Register(hallB)
	h.Register(all)

	h.Broadcast([]byte("update"), Subscription{EventID: "e1", Hall: "Hall A"})

	if len(hallA.Send) != 1 {
		t.Fatalf("hall A client missed the broadcast")
	}
	if len(hallB.Send) != 0 {
		t.Fatalf("hall B client received another hall's broadcast")
	}
	if len(all.Send) != 1 {
		t.Fatalf("event-wide client missed the broadcast")
	}
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	h := New()
	slow := &Client{ID: "slow", Send: make(chan []byte)}
	h.Register(slow)

	// Unbuffered channel with no reader: must not block.
	h.Broadcast([]byte("update"), Subscription{EventID: "e1", Hall: "Hall A"})
}

func TestParseSubscribe(t *testing.T) {
	msg, ok := ParseSubscribe([]byte(`{"action":"subscribe","event_id":"e1","hall":"Hall A"}`))
	if !ok || msg.Hall != "Hall A" || msg.EventID != "e1" {
		t.Fatalf("msg=%+v ok=%v", msg, ok)
	}
	if _, ok := ParseSubscribe([]byte(`{"action":"ping"}`)); ok {
		t.Fatalf("unknown action accepted")
	}
	if _, ok := ParseSubscribe([]byte(`not json`)); ok {
		t.Fatalf("malformed json accepted")
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := New()
	client := &Client{ID: "x", Send: make(chan []byte, 1)}
	h.Register(client)
	h.Unregister(client)

	if _, open := <-client.Send; open {
		t.Fatalf("send channel still open after unregister")
	}
	h.Broadcast([]byte("update"), Subscription{})
}
