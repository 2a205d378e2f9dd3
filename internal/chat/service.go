package chat

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	defaultHistoryLimit  = 100
	defaultTypingWindow  = 3 * time.Second
	defaultMaxNameLen    = 20
	defaultMaxMessageLen = 500
)

type Options struct {
	HistoryLimit  int
	TypingWindow  time.Duration
	MaxNameLen    int
	MaxMessageLen int
}

type IChatService interface {
	Join(c Conn, username, room string) error
	Leave(c Conn)
	Disconnect(c Conn)
	PostMessage(c Conn, claimedUser, body string) error
	StartTyping(c Conn)
	StopTyping(c Conn)
	ActiveUsers(c Conn) error
	SessionCount() int
}

// session binds one connection to one username in one room. A
// connection holds at most one; the binding map below is the only place
// enforcing that.
type session struct {
	username string
	roomID   string
}

type chatService struct {
	registry *Registry
	opts     Options

	mu       sync.Mutex
	sessions map[Conn]*session

	nextID atomic.Int64
}

func NewService(registry *Registry, opts Options) IChatService {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.TypingWindow <= 0 {
		opts.TypingWindow = defaultTypingWindow
	}
	if opts.MaxNameLen <= 0 {
		opts.MaxNameLen = defaultMaxNameLen
	}
	if opts.MaxMessageLen <= 0 {
		opts.MaxMessageLen = defaultMaxMessageLen
	}
	return &chatService{
		registry: registry,
		opts:     opts,
		sessions: make(map[Conn]*session),
	}
}

// Join validates the requested identity, binds the connection to the
// room and announces the arrival. A connection already bound elsewhere
// leaves its old room first, so at most one room per connection holds
// even across rapid rejoins. All checks run before any mutation.
func (s *chatService) Join(c Conn, username, room string) error {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)
	switch {
	case username == "":
		return ErrUsernameRequired
	case utf8.RuneCountInString(username) > s.opts.MaxNameLen:
		return ErrUsernameTooLong
	case room == "":
		return ErrRoomRequired
	case utf8.RuneCountInString(room) > s.opts.MaxNameLen:
		return ErrRoomTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A bound connection leaves its old room first; this also covers a
	// rejoin into the same room under the same name.
	if old, ok := s.sessions[c]; ok {
		s.leaveLocked(c, old, "left the room")
	}

	for {
		r := s.registry.GetOrCreate(room)
		r.mu.Lock()
		if r.closed {
			// Lost a race with a purge; the registry no longer holds
			// this instance.
			r.mu.Unlock()
			continue
		}
		if _, taken := r.members[username]; taken {
			r.mu.Unlock()
			return ErrNameTaken
		}

		r.cancelPurgeLocked()
		if err := r.addMemberLocked(username, c); err != nil {
			r.mu.Unlock()
			return err
		}
		s.sessions[c] = &session{username: username, roomID: room}

		// Private snapshot for the joiner: history as it was before the
		// join notice, plus the member list including themselves.
		c.Push(EventChatHistory, r.historyLocked(0))
		c.Push(EventActiveUsers, r.memberNamesLocked())

		msg := s.newMessage(SystemAuthor, username+" joined the room", KindJoin)
		r.appendLocked(msg, s.opts.HistoryLimit)
		r.broadcastLocked(EventMessage, msg)
		r.broadcastLocked(EventUserCount, r.memberCountLocked())
		r.mu.Unlock()

		zap.L().Info("member joined",
			zap.String("conn", c.ID()),
			zap.String("room", room),
			zap.String("username", username),
		)
		return nil
	}
}

// Leave handles an explicit leave-room request. No-op when unbound.
func (s *chatService) Leave(c Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[c]; ok {
		s.leaveLocked(c, sess, "left the room")
	}
}

// Disconnect is driven by the transport and behaves like a leave with a
// "disconnected" notice.
func (s *chatService) Disconnect(c Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[c]; ok {
		s.leaveLocked(c, sess, "disconnected")
	}
}

// leaveLocked tears one binding down: the leave notice and remaining
// member count go to the rest of the room only, the departing
// connection may already be gone. Caller holds s.mu.
func (s *chatService) leaveLocked(c Conn, sess *session, reason string) {
	delete(s.sessions, c)

	r, ok := s.registry.get(sess.roomID)
	if !ok {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if t, ok := r.typing[sess.username]; ok {
		t.Stop()
		delete(r.typing, sess.username)
	}
	r.removeMemberLocked(sess.username)

	msg := s.newMessage(SystemAuthor, sess.username+" "+reason, KindLeave)
	r.appendLocked(msg, s.opts.HistoryLimit)
	r.broadcastLocked(EventMessage, msg)
	r.broadcastLocked(EventUserCount, r.memberCountLocked())
	r.mu.Unlock()

	s.registry.RemoveIfEmpty(sess.roomID)
	zap.L().Info("member left",
		zap.String("conn", c.ID()),
		zap.String("room", sess.roomID),
		zap.String("username", sess.username),
		zap.String("reason", reason),
	)
}

// PostMessage appends a chat message and broadcasts it to the whole
// room, sender included. The claimed author must match the bound
// username, a payload cannot speak for somebody else.
func (s *chatService) PostMessage(c Conn, claimedUser, body string) error {
	s.mu.Lock()
	sess, ok := s.sessions[c]
	s.mu.Unlock()
	if !ok {
		// Not in a room: nothing to broadcast, drop quietly.
		return nil
	}

	body = strings.TrimSpace(body)
	switch {
	case body == "":
		return ErrMessageEmpty
	case utf8.RuneCountInString(body) > s.opts.MaxMessageLen:
		return ErrMessageTooLong
	case claimedUser != sess.username:
		return ErrIdentityMismatch
	}

	r, ok := s.registry.get(sess.roomID)
	if !ok {
		return nil
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	msg := s.newMessage(sess.username, body, KindMessage)
	r.appendLocked(msg, s.opts.HistoryLimit)
	r.broadcastLocked(EventMessage, msg)
	r.mu.Unlock()
	return nil
}

// ActiveUsers pushes the bound room's member list back to the sender.
func (s *chatService) ActiveUsers(c Conn) error {
	s.mu.Lock()
	sess, ok := s.sessions[c]
	s.mu.Unlock()
	if !ok {
		return ErrNotInRoom
	}
	r, ok := s.registry.get(sess.roomID)
	if !ok {
		return ErrNotInRoom
	}
	r.mu.Lock()
	names := r.memberNamesLocked()
	r.mu.Unlock()
	c.Push(EventActiveUsers, names)
	return nil
}

func (s *chatService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *chatService) newMessage(author, body, kind string) *Message {
	return &Message{
		ID:        s.nextID.Add(1),
		Author:    author,
		Body:      body,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}
