package tags

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"codelegends_gateway/cache"
	"codelegends_gateway/logger"
	"codelegends_gateway/models"
)

type fakeAPI struct {
	calls   atomic.Int32
	queries []string
	mu      sync.Mutex
	release chan struct{}

	failFirst int
	empty     bool
}

func (f *fakeAPI) SearchTags(ctx context.Context, _, query string) ([]models.Tag, error) {
	n := f.calls.Add(1)
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int(n) <= f.failFirst {
		return nil, errors.New("backend unavailable")
	}
	if f.empty {
		return []models.Tag{}, nil
	}
	return []models.Tag{{ID: 1, Name: query}}, nil
}

func TestSearchEmptyQuery(t *testing.T) {
	api := &fakeAPI{}
	s := NewSearcher(api, cache.NewMemory(), logger.Nop(), time.Minute)

	assert.Equal(t, []models.Tag{}, s.Search(context.Background(), "tok", "   "))
	assert.Equal(t, int32(0), api.calls.Load())
}

func TestSearchNormalizesAndCaches(t *testing.T) {
	api := &fakeAPI{}
	s := NewSearcher(api, cache.NewMemory(), logger.Nop(), time.Minute)
	ctx := context.Background()

	first := s.Search(ctx, "tok", "  GoLang ")
	second := s.Search(ctx, "tok", "golang")

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), api.calls.Load())
	assert.Equal(t, []string{"golang"}, api.queries)
}

func TestSearchCoalescesConcurrentCalls(t *testing.T) {
	api := &fakeAPI{release: make(chan struct{})}
	s := NewSearcher(api, cache.NewMemory(), logger.Nop(), 0)

	var wg sync.WaitGroup
	results := make([][]models.Tag, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Search(context.Background(), "tok", "react")
		}(i)
	}

	assert.Eventually(t, func() bool { return api.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(api.release)
	wg.Wait()

	assert.LessOrEqual(t, api.calls.Load(), int32(5))
	for _, r := range results {
		assert.Equal(t, []models.Tag{{ID: 1, Name: "react"}}, r)
	}
}

func TestSearchDoesNotCacheFailures(t *testing.T) {
	api := &fakeAPI{failFirst: 1}
	s := NewSearcher(api, cache.NewMemory(), logger.Nop(), time.Minute)
	ctx := context.Background()

	assert.Equal(t, []models.Tag{}, s.Search(ctx, "tok", "go"))
	assert.Equal(t, []models.Tag{{ID: 1, Name: "go"}}, s.Search(ctx, "tok", "go"))
	assert.Equal(t, int32(2), api.calls.Load())
}

func TestSearchDoesNotCacheEmptyResults(t *testing.T) {
	api := &fakeAPI{empty: true}
	s := NewSearcher(api, cache.NewMemory(), logger.Nop(), time.Minute)
	ctx := context.Background()

	assert.Empty(t, s.Search(ctx, "tok", "rust"))
	assert.Empty(t, s.Search(ctx, "tok", "rust"))
	assert.Equal(t, int32(2), api.calls.Load())
}

func TestSearchSurvivesCancelledLeader(t *testing.T) {
	api := &fakeAPI{release: make(chan struct{})}
	s := NewSearcher(api, cache.NewMemory(), logger.Nop(), time.Minute)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leader := make(chan []models.Tag, 1)
	go func() { leader <- s.Search(leaderCtx, "tok", "vue") }()
	assert.Eventually(t, func() bool { return api.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	follower := make(chan []models.Tag, 1)
	go func() { follower <- s.Search(context.Background(), "tok", "vue") }()
	time.Sleep(20 * time.Millisecond)

	cancel()
	close(api.release)

	want := []models.Tag{{ID: 1, Name: "vue"}}
	assert.Equal(t, want, <-leader)
	assert.Equal(t, want, <-follower)
	assert.Equal(t, want, s.Search(context.Background(), "tok", "vue"))
	assert.Equal(t, int32(1), api.calls.Load())
}
