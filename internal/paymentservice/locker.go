package paymentservice

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// Locker serializes balance work per account within the process.
type Locker struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

// NewLocker returns an empty Locker.
func NewLocker() *Locker {
	return &Locker{entries: make(map[uuid.UUID]*lockEntry)}
}

func (l *Locker) ref(id uuid.UUID) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		l.entries[id] = e
	}
	e.refs++

	return e.sem
}

func (l *Locker) unref(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[id]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
}

// Lock acquires the locks of all ids in ascending id order and returns the release function.
// It gives up with ctx.Err() once ctx is done.
func (l *Locker) Lock(ctx context.Context, ids ...uuid.UUID) (func(), error) {
	sorted := uniqueSorted(ids)
	held := make([]uuid.UUID, 0, len(sorted))
	sems := make([]*semaphore.Weighted, 0, len(sorted))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			sems[i].Release(1)
			l.unref(held[i])
		}
	}

	for _, id := range sorted {
		sem := l.ref(id)

		if err := sem.Acquire(ctx, 1); err != nil {
			l.unref(id)
			release()

			return nil, err
		}

		held = append(held, id)
		sems = append(sems, sem)
	}

	return release, nil
}

func uniqueSorted(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})

	return out
}
