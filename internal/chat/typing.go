package chat

import "time"

// Typing indicators are debounced per member: every typing signal
// resets the member's expiry timer, and a window elapsing without a
// cancel emits a single inferred stop-typing.

func (s *chatService) StartTyping(c Conn) {
	sess, r := s.boundRoom(c)
	if r == nil {
		return
	}
	name := sess.username

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if _, member := r.members[name]; !member {
		return
	}
	if t, ok := r.typing[name]; ok {
		t.Stop()
	}
	r.broadcastOthersLocked(name, EventTyping, name)

	var t *time.Timer
	t = time.AfterFunc(s.opts.TypingWindow, func() {
		s.expireTyping(r, name, t)
	})
	r.typing[name] = t
}

func (s *chatService) StopTyping(c Conn) {
	sess, r := s.boundRoom(c)
	if r == nil {
		return
	}
	name := sess.username

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if t, ok := r.typing[name]; ok {
		t.Stop()
		delete(r.typing, name)
	}
	r.broadcastOthersLocked(name, EventStopTyping, name)
}

// expireTyping runs when a debounce window elapses. The timer must
// still be the one registered in the map: a reset or cancel replaced or
// removed it, and then firing is a no-op.
func (s *chatService) expireTyping(r *roomState, name string, t *time.Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.typing[name] != t {
		return
	}
	delete(r.typing, name)
	r.broadcastOthersLocked(name, EventStopTyping, name)
}

// boundRoom resolves the caller's session and room; both nil when the
// connection is unbound or its room is gone.
func (s *chatService) boundRoom(c Conn) (*session, *roomState) {
	s.mu.Lock()
	sess, ok := s.sessions[c]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	r, ok := s.registry.get(sess.roomID)
	if !ok {
		return nil, nil
	}
	return sess, r
}
