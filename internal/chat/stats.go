package chat

import (
	"fmt"
	"sort"
	"time"
)

// Read-only snapshots for the HTTP stats endpoints. Snapshot semantics:
// each room is read under its own lock, concurrent mutation between
// rooms is fine.

type RoomStats struct {
	ID           string    `json:"id"`
	UserCount    int       `json:"user_count"`
	MessageCount int       `json:"message_count"`
	LastActivity time.Time `json:"last_activity,omitzero"`
} // @name RoomStats

type RoomDetail struct {
	ID           string     `json:"id"`
	Users        []string   `json:"users"`
	UserCount    int        `json:"user_count"`
	MessageCount int        `json:"message_count"`
	LastActivity time.Time  `json:"last_activity,omitzero"`
	Recent       []*Message `json:"recent_messages"`
} // @name RoomDetail

// Stats lists every live room, sorted by id.
func (g *Registry) Stats() []RoomStats {
	g.mu.RLock()
	snapshot := make([]*roomState, 0, len(g.rooms))
	for _, r := range g.rooms {
		snapshot = append(snapshot, r)
	}
	g.mu.RUnlock()

	out := make([]RoomStats, 0, len(snapshot))
	for _, r := range snapshot {
		r.mu.Lock()
		out = append(out, RoomStats{
			ID:           r.id,
			UserCount:    r.memberCountLocked(),
			MessageCount: len(r.history),
			LastActivity: r.lastMsgAt,
		})
		r.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RoomDetail returns a single room including its last 10 messages.
func (g *Registry) RoomDetail(id string) (*RoomDetail, error) {
	r, ok := g.get(id)
	if !ok {
		return nil, fmt.Errorf("room %s not found", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	names := r.memberNamesLocked()
	sort.Strings(names)
	return &RoomDetail{
		ID:           r.id,
		Users:        names,
		UserCount:    len(names),
		MessageCount: len(r.history),
		LastActivity: r.lastMsgAt,
		Recent:       r.historyLocked(10),
	}, nil
}

// Totals returns aggregate room and message counts for liveness checks.
func (g *Registry) Totals() (rooms, users, messages int) {
	g.mu.RLock()
	snapshot := make([]*roomState, 0, len(g.rooms))
	for _, r := range g.rooms {
		snapshot = append(snapshot, r)
	}
	g.mu.RUnlock()

	rooms = len(snapshot)
	for _, r := range snapshot {
		r.mu.Lock()
		users += r.memberCountLocked()
		messages += len(r.history)
		r.mu.Unlock()
	}
	return rooms, users, messages
}
