package room

import (
	"sort"
	"time"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

// members tracks the roster of one room and who holds host authority.
// Usernames are unique per room. The first joiner becomes host; when the host
// leaves, authority passes to the earliest-remaining joiner.
type members struct {
	byName     map[string]*model.Member
	host       string
	maxMembers int
	now        func() time.Time
}

func newMembers(maxMembers int, now func() time.Time) *members {
	if now == nil {
		now = time.Now
	}
	return &members{
		byName:     make(map[string]*model.Member),
		maxMembers: maxMembers,
		now:        now,
	}
}

// join adds a member. The first joiner of a hostless room becomes host.
func (m *members) join(username string, avatarIndex int, connID string) (*model.Member, error) {
	if _, ok := m.byName[username]; ok {
		return nil, errs.ErrDuplicateUsername
	}
	if m.maxMembers > 0 && len(m.byName) >= m.maxMembers {
		return nil, errs.ErrRoomFull
	}
	mem := &model.Member{
		ConnID:      connID,
		Username:    username,
		AvatarIndex: avatarIndex,
		JoinedAt:    m.now(),
	}
	if m.host == "" {
		m.host = username
		mem.IsHost = true
	}
	m.byName[username] = mem
	return mem, nil
}

// leave removes a member. A departing host hands authority to the
// earliest-remaining joiner so the room is never left hostless.
func (m *members) leave(username string) (*model.Member, error) {
	mem, ok := m.byName[username]
	if !ok {
		return nil, errs.ErrMemberNotFound
	}
	delete(m.byName, username)
	if m.host == username {
		m.host = ""
		if next := m.earliest(); next != nil {
			m.host = next.Username
			next.IsHost = true
		}
	}
	return mem, nil
}

func (m *members) earliest() *model.Member {
	var best *model.Member
	for _, mem := range m.byName {
		if best == nil || mem.JoinedAt.Before(best.JoinedAt) ||
			(mem.JoinedAt.Equal(best.JoinedAt) && mem.Username < best.Username) {
			best = mem
		}
	}
	return best
}

func (m *members) hostUsername() string { return m.host }

func (m *members) isHost(username string) bool {
	return m.host != "" && m.host == username
}

func (m *members) count() int { return len(m.byName) }

func (m *members) get(username string) (*model.Member, bool) {
	mem, ok := m.byName[username]
	return mem, ok
}

// roster returns the member list ordered by join time.
func (m *members) roster() []model.Member {
	out := make([]model.Member, 0, len(m.byName))
	for _, mem := range m.byName {
		out = append(out, *mem)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].Username < out[j].Username
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}

// usernames returns roster names in join order.
func (m *members) usernames() []string {
	r := m.roster()
	out := make([]string, 0, len(r))
	for _, mem := range r {
		out = append(out, mem.Username)
	}
	return out
}
