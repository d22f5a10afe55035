package room

import (
	"errors"
	"testing"
	"time"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
)

func TestMembers_FirstJoinerIsHost(t *testing.T) {
	fn := newFakeNow()
	m := newMembers(0, fn.now)

	alice, err := m.join("alice", 0, "c1")
	if err != nil {
		t.Fatalf("join alice: %v", err)
	}
	if !alice.IsHost || m.hostUsername() != "alice" {
		t.Errorf("first joiner should be host, host = %q", m.hostUsername())
	}

	fn.advance(time.Second)
	bob, err := m.join("bob", 1, "c2")
	if err != nil {
		t.Fatalf("join bob: %v", err)
	}
	if bob.IsHost {
		t.Error("second joiner must not be host")
	}
}

func TestMembers_DuplicateUsername(t *testing.T) {
	m := newMembers(0, nil)
	if _, err := m.join("alice", 0, "c1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	_, err := m.join("alice", 2, "c2")
	if !errors.Is(err, errs.ErrDuplicateUsername) {
		t.Errorf("err = %v, want ErrDuplicateUsername", err)
	}
}

func TestMembers_RoomFull(t *testing.T) {
	m := newMembers(2, nil)
	_, _ = m.join("a", 0, "c1")
	_, _ = m.join("b", 0, "c2")
	_, err := m.join("c", 0, "c3")
	if !errors.Is(err, errs.ErrRoomFull) {
		t.Errorf("err = %v, want ErrRoomFull", err)
	}
}

func TestMembers_HostReassignmentToEarliestJoiner(t *testing.T) {
	fn := newFakeNow()
	m := newMembers(0, fn.now)

	_, _ = m.join("alice", 0, "c1")
	fn.advance(time.Second)
	_, _ = m.join("bob", 0, "c2")
	fn.advance(time.Second)
	_, _ = m.join("carol", 0, "c3")

	if _, err := m.leave("alice"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if m.hostUsername() != "bob" {
		t.Errorf("host = %q, want bob (earliest remaining)", m.hostUsername())
	}
	mem, _ := m.get("bob")
	if !mem.IsHost {
		t.Error("bob's IsHost flag not set after reassignment")
	}

	if _, err := m.leave("bob"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if m.hostUsername() != "carol" {
		t.Errorf("host = %q, want carol", m.hostUsername())
	}
}

func TestMembers_NonHostLeaveKeepsHost(t *testing.T) {
	fn := newFakeNow()
	m := newMembers(0, fn.now)
	_, _ = m.join("alice", 0, "c1")
	fn.advance(time.Second)
	_, _ = m.join("bob", 0, "c2")

	_, _ = m.leave("bob")
	if m.hostUsername() != "alice" {
		t.Errorf("host = %q, want alice", m.hostUsername())
	}
}

func TestMembers_LeaveUnknown(t *testing.T) {
	m := newMembers(0, nil)
	_, err := m.leave("ghost")
	if !errors.Is(err, errs.ErrMemberNotFound) {
		t.Errorf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestMembers_RosterOrderedByJoinTime(t *testing.T) {
	fn := newFakeNow()
	m := newMembers(0, fn.now)
	_, _ = m.join("carol", 0, "c3")
	fn.advance(time.Second)
	_, _ = m.join("alice", 0, "c1")
	fn.advance(time.Second)
	_, _ = m.join("bob", 0, "c2")

	got := m.usernames()
	want := []string{"carol", "alice", "bob"}
	if !equalRefs(got, want) {
		t.Errorf("roster order = %v, want %v", got, want)
	}
}
