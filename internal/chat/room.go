package chat

import (
	"sync"
	"time"
)

// roomState is the shared per-room state. Every read or mutation of
// members, history or typing goes through mu; cross-room operations
// never need a shared lock.
type roomState struct {
	id string

	mu      sync.Mutex
	members map[string]Conn
	history []*Message
	typing  map[string]*time.Timer

	lastMsgAt time.Time

	// Delayed history purge. purgeSeq is bumped on every schedule and
	// cancel so a late-firing timer can tell it has been superseded.
	purgeTimer *time.Timer
	purgeSeq   uint64

	closed bool
}

func newRoomState(id string) *roomState {
	return &roomState{
		id:      id,
		members: make(map[string]Conn),
		typing:  make(map[string]*time.Timer),
		history: make([]*Message, 0, 16),
	}
}

// appendLocked adds msg to the history and evicts the oldest entries
// beyond limit. Caller holds r.mu.
func (r *roomState) appendLocked(msg *Message, limit int) {
	r.history = append(r.history, msg)
	if n := len(r.history); n > limit {
		r.history = append(r.history[:0:0], r.history[n-limit:]...)
	}
	r.lastMsgAt = msg.Timestamp
}

// historyLocked returns a snapshot of up to last messages, oldest first.
// last <= 0 means the whole window. Caller holds r.mu.
func (r *roomState) historyLocked(last int) []*Message {
	h := r.history
	if last > 0 && len(h) > last {
		h = h[len(h)-last:]
	}
	out := make([]*Message, len(h))
	copy(out, h)
	return out
}

// broadcastLocked pushes an event to every member. Pushes are buffered
// channel sends, so holding r.mu here is fine and keeps per-room
// delivery ordered.
func (r *roomState) broadcastLocked(event string, body any) {
	for _, c := range r.members {
		c.Push(event, body)
	}
}

// broadcastOthersLocked pushes to every member except skip.
func (r *roomState) broadcastOthersLocked(skip string, event string, body any) {
	for name, c := range r.members {
		if name == skip {
			continue
		}
		c.Push(event, body)
	}
}

// cancelTimersLocked stops every pending typing timer and the purge
// timer. Stopped callbacks that already fired re-validate their map
// entry, so a lost Stop race is harmless. Caller holds r.mu.
func (r *roomState) cancelTimersLocked() {
	for name, t := range r.typing {
		t.Stop()
		delete(r.typing, name)
	}
	r.purgeSeq++
	if r.purgeTimer != nil {
		r.purgeTimer.Stop()
		r.purgeTimer = nil
	}
}

// cancelPurgeLocked invalidates any pending delayed purge, typically
// because a member joined back within the grace period.
func (r *roomState) cancelPurgeLocked() {
	r.purgeSeq++
	if r.purgeTimer != nil {
		r.purgeTimer.Stop()
		r.purgeTimer = nil
	}
}
