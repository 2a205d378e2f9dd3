package chat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPurgeGrace    = 5 * time.Minute
	defaultSweepInterval = 10 * time.Minute
	defaultMaxIdle       = time.Hour
)

type RegistryOptions struct {
	// PurgeGrace is how long an empty room keeps its history before the
	// delayed purge fires, so a quick rejoin finds it intact.
	PurgeGrace time.Duration
	// SweepInterval is the period of the background stale-room sweep.
	SweepInterval time.Duration
	// MaxIdle is the age of the last message beyond which an empty room
	// is reclaimed by the sweep.
	MaxIdle time.Duration
}

// Registry owns the room-id to room-state mapping. Rooms are created
// lazily on first join and reclaimed once empty, either by the delayed
// purge or by the periodic sweep.
type Registry struct {
	opts RegistryOptions

	mu    sync.RWMutex
	rooms map[string]*roomState
}

func NewRegistry(opts RegistryOptions) *Registry {
	if opts.PurgeGrace <= 0 {
		opts.PurgeGrace = defaultPurgeGrace
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.MaxIdle <= 0 {
		opts.MaxIdle = defaultMaxIdle
	}
	return &Registry{
		opts:  opts,
		rooms: make(map[string]*roomState),
	}
}

// GetOrCreate never fails. The returned room may still lose a race with
// a concurrent purge; callers must re-check r.closed under r.mu and
// retry, purged rooms never resurrect inside the map.
func (g *Registry) GetOrCreate(id string) *roomState {
	g.mu.RLock()
	r, ok := g.rooms[id]
	g.mu.RUnlock()
	if ok {
		return r
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok = g.rooms[id]; ok {
		return r
	}
	r = newRoomState(id)
	g.rooms[id] = r
	zap.L().Debug("room created", zap.String("room", id))
	return r
}

func (g *Registry) get(id string) (*roomState, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	return r, ok
}

// RemoveIfEmpty schedules a delayed history purge when the room has no
// members left. Typing timers are stopped immediately; the history
// survives until the grace period elapses without a rejoin. The purge
// callback re-validates at fire time, a pending purge is never assumed
// valid.
func (g *Registry) RemoveIfEmpty(id string) {
	r, ok := g.get(id)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.memberCountLocked() > 0 {
		return
	}
	for name, t := range r.typing {
		t.Stop()
		delete(r.typing, name)
	}
	r.cancelPurgeLocked()
	seq := r.purgeSeq
	r.purgeTimer = time.AfterFunc(g.opts.PurgeGrace, func() {
		g.purge(r, seq)
	})
}

// purge deletes the room from the registry iff the scheduling sequence
// is still current and the room is still empty.
func (g *Registry) purge(r *roomState, seq uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.purgeSeq != seq || r.memberCountLocked() > 0 {
		return
	}
	r.cancelTimersLocked()
	r.closed = true
	delete(g.rooms, r.id)
	zap.L().Info("room purged", zap.String("room", r.id))
}

// Run drives the periodic stale sweep until ctx is cancelled.
// Run must be started once at service boot.
func (g *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(g.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.SweepStale(g.opts.MaxIdle)
		}
	}
}

// SweepStale reclaims every empty room whose most recent message is
// older than maxIdle. Rooms that never saw a message are left to the
// delayed purge.
func (g *Registry) SweepStale(maxIdle time.Duration) {
	g.mu.RLock()
	snapshot := make([]*roomState, 0, len(g.rooms))
	for _, r := range g.rooms {
		snapshot = append(snapshot, r)
	}
	g.mu.RUnlock()

	cutoff := time.Now().Add(-maxIdle)
	for _, r := range snapshot {
		g.mu.Lock()
		r.mu.Lock()
		if !r.closed && r.memberCountLocked() == 0 &&
			!r.lastMsgAt.IsZero() && r.lastMsgAt.Before(cutoff) {
			r.cancelTimersLocked()
			r.closed = true
			delete(g.rooms, r.id)
			zap.L().Info("stale room swept", zap.String("room", r.id))
		}
		r.mu.Unlock()
		g.mu.Unlock()
	}
}
