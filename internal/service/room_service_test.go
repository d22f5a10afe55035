package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
	"github.com/siwu-945/FunTrip-sub000/internal/room"
)

type fakeResolver struct {
	url      string
	err      error
	resolved chan string
}

func (f *fakeResolver) Resolve(_ context.Context, trackRef string) (string, error) {
	if f.resolved != nil {
		f.resolved <- trackRef
	}
	return f.url, f.err
}

func testService(res AudioResolver) (*RoomService, *room.Registry) {
	reg := room.NewRegistry(0, nil)
	hub := NewRoomHub(1024, 1024, 0, zap.NewNop())
	svc := NewRoomService(reg, hub, nil, res, zap.NewNop())
	return svc, reg
}

func TestRoomService_JoinCreateSemantics(t *testing.T) {
	svc, _ := testService(nil)

	if err := svc.Join("R1", "alice", 0, "c1", JoinActionCreate, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Join("R1", "bob", 0, "c2", JoinActionCreate, ""); !errors.Is(err, errs.ErrRoomExists) {
		t.Errorf("create existing err = %v, want ErrRoomExists", err)
	}
	if err := svc.Join("R1", "bob", 0, "c2", JoinActionJoin, ""); err != nil {
		t.Errorf("join existing: %v", err)
	}
	if err := svc.Join("R2", "carol", 0, "c3", JoinActionJoin, ""); !errors.Is(err, errs.ErrRoomNotFound) {
		t.Errorf("join absent err = %v, want ErrRoomNotFound", err)
	}
	if err := svc.Join("R1", "dave", 0, "c4", "rejoin", ""); !errors.Is(err, errs.ErrBadRequest) {
		t.Errorf("bad action err = %v, want ErrBadRequest", err)
	}
}

func TestRoomService_PasswordRoomOverWS(t *testing.T) {
	svc, _ := testService(nil)

	if err := svc.Join("locked", "alice", 0, "c1", JoinActionCreate, "secret"); err != nil {
		t.Fatalf("create with password: %v", err)
	}
	if err := svc.Join("locked", "bob", 0, "c2", JoinActionJoin, "wrong"); !errors.Is(err, errs.ErrWrongPassword) {
		t.Errorf("err = %v, want ErrWrongPassword", err)
	}
	if err := svc.Join("locked", "bob", 0, "c2", JoinActionJoin, "secret"); err != nil {
		t.Errorf("join with password: %v", err)
	}
}

func TestRoomService_LastLeaveDestroysRoom(t *testing.T) {
	svc, reg := testService(nil)
	_ = svc.Join("R1", "alice", 0, "c1", JoinActionCreate, "")
	_ = svc.Join("R1", "bob", 0, "c2", JoinActionJoin, "")

	if err := svc.Leave("R1", "alice"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if reg.Count() != 1 {
		t.Errorf("room destroyed too early")
	}
	if err := svc.Leave("R1", "bob"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if reg.Count() != 0 {
		t.Errorf("rooms = %d after last leave, want 0", reg.Count())
	}
	if _, err := svc.Snapshot("R1"); !errors.Is(err, errs.ErrRoomNotFound) {
		t.Errorf("snapshot after destroy err = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomService_HostCheck(t *testing.T) {
	svc, _ := testService(nil)
	_ = svc.Join("R1", "alice", 0, "c1", JoinActionCreate, "")
	_ = svc.Join("R1", "bob", 0, "c2", JoinActionJoin, "")

	if ok, err := svc.IsHost("R1", "alice"); err != nil || !ok {
		t.Errorf("IsHost(alice) = %v, %v", ok, err)
	}
	if ok, _ := svc.IsHost("R1", "bob"); ok {
		t.Error("bob is not host")
	}
	if _, err := svc.IsHost("nope", "x"); !errors.Is(err, errs.ErrRoomNotFound) {
		t.Errorf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomService_QueueFlowWithAuthorization(t *testing.T) {
	svc, _ := testService(nil)
	_ = svc.Join("R1", "alice", 0, "c1", JoinActionCreate, "")
	_ = svc.Join("R1", "bob", 0, "c2", JoinActionJoin, "")

	tracks := []model.Song{{TrackRef: "t1", Title: "One"}, {TrackRef: "t2", Title: "Two"}}
	if err := svc.AddSongs("R1", "bob", tracks); err != nil {
		t.Fatalf("any member may add songs: %v", err)
	}
	if err := svc.DeleteSong("R1", "bob", 0); !errors.Is(err, errs.ErrNotHost) {
		t.Errorf("guest delete err = %v, want ErrNotHost", err)
	}
	if err := svc.ReorderQueue("R1", "alice", 0, 1); err != nil {
		t.Fatalf("host reorder: %v", err)
	}
	snap, _ := svc.Snapshot("R1")
	if snap.Queue[0].TrackRef != "t2" {
		t.Errorf("queue after reorder = %v", snap.Queue)
	}
	if err := svc.ClearQueue("R1", "alice"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	snap, _ = svc.Snapshot("R1")
	if len(snap.Queue) != 0 {
		t.Errorf("queue not cleared: %v", snap.Queue)
	}
}

func TestRoomService_SetCurrentIndexTriggersResolution(t *testing.T) {
	res := &fakeResolver{url: "https://cdn/t1.mp3", resolved: make(chan string, 1)}
	svc, _ := testService(res)
	_ = svc.Join("R1", "alice", 0, "c1", JoinActionCreate, "")
	_ = svc.AddSongs("R1", "alice", []model.Song{{TrackRef: "t1", Title: "One"}})

	if err := svc.SetCurrentIndex("R1", "alice", 0); err != nil {
		t.Fatalf("setCurrentIndex: %v", err)
	}

	select {
	case ref := <-res.resolved:
		if ref != "t1" {
			t.Errorf("resolved ref = %q, want t1", ref)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("resolver was never called")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap, _ := svc.Snapshot("R1")
		if snap.Queue[0].AudioURL == "https://cdn/t1.mp3" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("audio url never applied: %+v", snap.Queue[0])
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRoomService_ResolutionFailureIsNonFatal(t *testing.T) {
	res := &fakeResolver{err: errs.ErrAudioNotFound, resolved: make(chan string, 1)}
	svc, _ := testService(res)
	_ = svc.Join("R1", "alice", 0, "c1", JoinActionCreate, "")
	_ = svc.AddSongs("R1", "alice", []model.Song{{TrackRef: "t1", Title: "One"}})

	if err := svc.SetCurrentIndex("R1", "alice", 0); err != nil {
		t.Fatalf("setCurrentIndex must not surface resolver errors: %v", err)
	}
	<-res.resolved
	snap, _ := svc.Snapshot("R1")
	if snap.Queue[0].AudioURL != "" {
		t.Errorf("audio url set despite failure: %q", snap.Queue[0].AudioURL)
	}
}

func TestRoomService_ProgressFlow(t *testing.T) {
	svc, _ := testService(nil)
	_ = svc.Join("R1", "alice", 0, "c1", JoinActionCreate, "")
	_ = svc.AddSongs("R1", "alice", []model.Song{{TrackRef: "t1", Title: "One"}})

	if err := svc.StartPlayback("R1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.OverrideProgress("R1", 12.5, true); err != nil {
		t.Fatalf("override: %v", err)
	}
	snap, _ := svc.Snapshot("R1")
	if snap.Progress.ElapsedSeconds != 12.5 || !snap.Progress.IsPaused {
		t.Errorf("progress = %+v", snap.Progress)
	}
	if err := svc.PausePlayback("R1"); err != nil {
		t.Fatalf("pause: %v", err)
	}
}
