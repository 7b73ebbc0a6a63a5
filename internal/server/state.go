package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/geoquest/api/internal/quest"
)

// StateCache owns in-memory player state and coalesces persistence.
// Reads and mutations go through here so a burst of reward mutations
// collapses into a single trailing-edge write: every Update cancels and
// reschedules the entry's pending write. Write failures are logged, not
// surfaced: the state already exists in memory and the next mutation
// reschedules a sync.
type StateCache struct {
	store  Store
	logger *slog.Logger
	delay  time.Duration

	mu      sync.Mutex
	entries map[string]*stateEntry
}

type stateEntry struct {
	mu     sync.Mutex
	state  quest.UserState
	loaded bool
	timer  *time.Timer // single pending-write slot
}

func NewStateCache(store Store, logger *slog.Logger, delay time.Duration) *StateCache {
	return &StateCache{
		store:   store,
		logger:  logger,
		delay:   delay,
		entries: make(map[string]*stateEntry),
	}
}

func (c *StateCache) entry(id string) *stateEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		e = &stateEntry{}
		c.entries[id] = e
	}
	return e
}

func (e *stateEntry) load(ctx context.Context, store Store, id string) error {
	if e.loaded {
		return nil
	}
	u, err := store.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	e.state = u
	e.loaded = true
	return nil
}

// Get returns the freshest known state for a player: the in-memory
// copy when a write is pending, the stored copy otherwise.
func (c *StateCache) Get(ctx context.Context, id string) (quest.UserState, error) {
	e := c.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.load(ctx, c.store, id); err != nil {
		return quest.UserState{}, err
	}
	return e.state, nil
}

// Update applies fn to the player's current state under the entry lock
// and schedules a debounced write of the result.
func (c *StateCache) Update(ctx context.Context, id string, fn func(quest.UserState) quest.UserState) (quest.UserState, error) {
	e := c.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.load(ctx, c.store, id); err != nil {
		return quest.UserState{}, err
	}

	e.state = fn(e.state)

	// Cancel-and-reschedule: bursts collapse into one write.
	if e.timer != nil {
		e.timer.Stop()
	}
	snapshot := e.state
	e.timer = time.AfterFunc(c.delay, func() {
		c.persist(snapshot)
	})

	return e.state, nil
}

func (c *StateCache) persist(u quest.UserState) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.store.SavePlayer(ctx, u); err != nil {
		c.logger.Error("persisting player state failed", "player_id", u.ID, "error", err)
	}
}

// Forget drops a player from the cache and cancels any pending write.
// Used when an admin deletes the profile.
func (c *StateCache) Forget(id string) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if ok {
		delete(c.entries, id)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.mu.Unlock()
}

// Flush writes all dirty entries immediately. Called on shutdown.
func (c *StateCache) Flush(ctx context.Context) error {
	c.mu.Lock()
	entries := make([]*stateEntry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.mu.Unlock()

	var errs []error
	for _, e := range entries {
		e.mu.Lock()
		pending := e.timer != nil && e.timer.Stop()
		u := e.state
		e.timer = nil
		e.mu.Unlock()

		if !pending {
			continue
		}
		if err := c.store.SavePlayer(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
