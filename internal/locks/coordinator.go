// Package locks serializes work on accounts.
//
// Locks are always taken in ascending account id order, so two callers that
// need an overlapping set of accounts can never wait on each other in a cycle.
package locks

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Coordinator hands out per-account mutual exclusion.
// The zero value is not usable; use New.
type Coordinator struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// New creates an empty Coordinator.
func New() *Coordinator {
	return &Coordinator{entries: make(map[int64]*entry)}
}

type heldKey struct{}

// held is the set of account ids owned by one execution.
type held struct {
	owner *Coordinator
	ids   map[int64]struct{}
}

func heldFrom(ctx context.Context, c *Coordinator) *held {
	h, _ := ctx.Value(heldKey{}).(*held)
	if h == nil || h.owner != c {
		return nil
	}
	return h
}

// Acquire locks every id in ids and returns a context that records ownership
// together with a release function. Release is safe to call more than once.
//
// Ids already held through ctx are skipped, which makes nested Acquire calls
// from the same execution reentrant. Waiting honours ctx cancellation; on
// cancellation any locks taken so far are released and ctx.Err() is returned.
func (c *Coordinator) Acquire(ctx context.Context, ids ...int64) (context.Context, func(), error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	parent := heldFrom(ctx, c)
	var need []int64
	for _, id := range sorted {
		if parent != nil {
			if _, ok := parent.ids[id]; ok {
				continue
			}
		}
		need = append(need, id)
	}

	acquired := make([]int64, 0, len(need))
	for _, id := range need {
		e := c.ref(id)
		if err := e.sem.Acquire(ctx, 1); err != nil {
			c.unref(id)
			c.releaseAll(acquired)
			return ctx, func() {}, err
		}
		acquired = append(acquired, id)
	}

	next := &held{owner: c, ids: make(map[int64]struct{}, len(sorted))}
	if parent != nil {
		for id := range parent.ids {
			next.ids[id] = struct{}{}
		}
	}
	for _, id := range acquired {
		next.ids[id] = struct{}{}
	}

	var once sync.Once
	release := func() {
		once.Do(func() { c.releaseAll(acquired) })
	}
	return context.WithValue(ctx, heldKey{}, next), release, nil
}

// Held reports whether ctx owns the lock of id.
func (c *Coordinator) Held(ctx context.Context, id int64) bool {
	h := heldFrom(ctx, c)
	if h == nil {
		return false
	}
	_, ok := h.ids[id]
	return ok
}

// Size returns the number of ids with a live lock entry.
func (c *Coordinator) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Coordinator) ref(id int64) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		c.entries[id] = e
	}
	e.refs++
	return e
}

func (c *Coordinator) unref(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[id]
	e.refs--
	if e.refs == 0 {
		delete(c.entries, id)
	}
}

// releaseAll unlocks in reverse acquisition order.
func (c *Coordinator) releaseAll(ids []int64) {
	for i := len(ids) - 1; i >= 0; i-- {
		c.mu.Lock()
		e := c.entries[ids[i]]
		c.mu.Unlock()
		e.sem.Release(1)
		c.unref(ids[i])
	}
}
