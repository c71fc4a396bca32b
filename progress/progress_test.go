package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTrackerStamps(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()
	at := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return at }

	_, ok, err := tr.Stamp(ctx, 1, "go-basics")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := tr.Touch(ctx, Event{UserID: 1, CourseSlug: "go-basics", Kind: KindModuleUnlocked})
	require.NoError(t, err)
	assert.Equal(t, at, got)

	stamp, ok, err := tr.Stamp(ctx, 1, "go-basics")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, at, stamp)

	_, ok, _ = tr.Stamp(ctx, 2, "go-basics")
	assert.False(t, ok)
}

func TestMemoryTrackerDeliversOnlyToOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewMemoryTracker()

	mine, err := tr.Subscribe(ctx, 1)
	require.NoError(t, err)
	other, err := tr.Subscribe(ctx, 2)
	require.NoError(t, err)

	_, err = tr.Touch(context.Background(), Event{UserID: 1, CourseSlug: "go", Kind: KindEnrolled})
	require.NoError(t, err)

	select {
	case ev := <-mine:
		assert.Equal(t, KindEnrolled, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	select {
	case ev := <-other:
		t.Fatalf("unexpected event for other user: %+v", ev)
	default:
	}

	cancel()
	select {
	case _, ok := <-mine:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}
