package service

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

// Hub tests use nil connections and a zero read limit; only the channel
// plumbing is exercised here, the socket loops live in the handler.
func testHub() *RoomHub {
	return NewRoomHub(1024, 1024, 0, zap.NewNop())
}

func recvEnvelope(t *testing.T, p *Peer) model.Envelope {
	t.Helper()
	select {
	case frame := <-p.Send:
		var env model.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("bad frame %q: %v", frame, err)
		}
		return env
	default:
		t.Fatal("no frame pending")
		return model.Envelope{}
	}
}

func TestRoomHub_PublishReachesAllRoomPeers(t *testing.T) {
	h := testHub()
	p1, c1 := h.Register("R1", "alice", nil)
	defer c1()
	p2, c2 := h.Register("R1", "bob", nil)
	defer c2()
	p3, c3 := h.Register("R2", "carol", nil)
	defer c3()

	h.Publish("R1", model.EventUserJoined, []string{"alice", "bob"})

	for _, p := range []*Peer{p1, p2} {
		env := recvEnvelope(t, p)
		if env.Event != model.EventUserJoined {
			t.Errorf("%s got event %q", p.Username, env.Event)
		}
	}
	select {
	case frame := <-p3.Send:
		t.Errorf("R2 peer received R1 broadcast: %s", frame)
	default:
	}
}

func TestRoomHub_PublishPreservesOrder(t *testing.T) {
	h := testHub()
	p, cleanup := h.Register("R1", "alice", nil)
	defer cleanup()

	h.Publish("R1", "first", nil)
	h.Publish("R1", "second", nil)
	h.Publish("R1", "third", nil)

	for _, want := range []string{"first", "second", "third"} {
		if env := recvEnvelope(t, p); env.Event != want {
			t.Errorf("got %q, want %q", env.Event, want)
		}
	}
}

func TestRoomHub_Unicast(t *testing.T) {
	h := testHub()
	p1, c1 := h.Register("R1", "alice", nil)
	defer c1()
	p2, c2 := h.Register("R1", "bob", nil)
	defer c2()

	h.Unicast(p2.ConnID, model.EventProgressSync, model.Progress{Index: 1})

	env := recvEnvelope(t, p2)
	if env.Event != model.EventProgressSync {
		t.Errorf("event = %q", env.Event)
	}
	var p model.Progress
	if err := json.Unmarshal(env.Data, &p); err != nil || p.Index != 1 {
		t.Errorf("payload = %s (%v)", env.Data, err)
	}
	select {
	case <-p1.Send:
		t.Error("unicast leaked to another peer")
	default:
	}

	// Unknown conn ids are dropped silently.
	h.Unicast("nope", model.EventProgressSync, nil)
}

func TestRoomHub_UnregisterRemovesPeer(t *testing.T) {
	h := testHub()
	_, c1 := h.Register("R1", "alice", nil)
	if h.PeerCount("R1") != 1 {
		t.Fatalf("PeerCount = %d", h.PeerCount("R1"))
	}
	c1()
	if h.PeerCount("R1") != 0 {
		t.Errorf("PeerCount after cleanup = %d", h.PeerCount("R1"))
	}
	c1() // double cleanup must not panic
}
