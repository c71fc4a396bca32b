// Package progress records when a learner's progress last changed so progress
// views know to refresh.
package progress

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	KindModuleUnlocked = "module_unlocked"
	KindEnrolled       = "enrolled"
	KindOnboarded      = "onboarded"
)

type Event struct {
	UserID     int       `json:"userId"`
	CourseSlug string    `json:"courseSlug"`
	Kind       string    `json:"kind"`
	At         time.Time `json:"at"`
}

type Tracker interface {
	// Touch records a change and notifies subscribers.
	Touch(ctx context.Context, ev Event) (time.Time, error)
	// Stamp returns the last change time for (userID, courseSlug).
	Stamp(ctx context.Context, userID int, courseSlug string) (time.Time, bool, error)
	// Subscribe delivers events for userID until ctx is done.
	Subscribe(ctx context.Context, userID int) (<-chan Event, error)
}

func stampKey(userID int, courseSlug string) string {
	return fmt.Sprintf("progress:%d:%s", userID, courseSlug)
}

type MemoryTracker struct {
	mu     sync.Mutex
	stamps map[string]time.Time
	subs   map[int]map[chan Event]struct{}
	now    func() time.Time
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		stamps: make(map[string]time.Time),
		subs:   make(map[int]map[chan Event]struct{}),
		now:    time.Now,
	}
}

func (m *MemoryTracker) Touch(_ context.Context, ev Event) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.At.IsZero() {
		ev.At = m.now()
	}
	m.stamps[stampKey(ev.UserID, ev.CourseSlug)] = ev.At
	for ch := range m.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev.At, nil
}

func (m *MemoryTracker) Stamp(_ context.Context, userID int, courseSlug string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.stamps[stampKey(userID, courseSlug)]
	return at, ok, nil
}

func (m *MemoryTracker) Subscribe(ctx context.Context, userID int) (<-chan Event, error) {
	ch := make(chan Event, 8)
	m.mu.Lock()
	if m.subs[userID] == nil {
		m.subs[userID] = make(map[chan Event]struct{})
	}
	m.subs[userID][ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs[userID], ch)
		if len(m.subs[userID]) == 0 {
			delete(m.subs, userID)
		}
		m.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
