package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

type recordingService struct {
	mu    sync.Mutex
	seen  []ports.ModerationInput
	fail  map[string]error
	delay time.Duration
	done  chan struct{}
	want  int
}

func newRecordingService(want int) *recordingService {
	return &recordingService{fail: map[string]error{}, done: make(chan struct{}), want: want}
}

func (s *recordingService) Process(_ context.Context, in ports.ModerationInput) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, in)
	if len(s.seen) == s.want {
		close(s.done)
	}
	return s.fail[in.AppID]
}

func (s *recordingService) inputs() []ports.ModerationInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ModerationInput(nil), s.seen...)
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatcher")
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingService(0), zerolog.Nop())

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("app-%d", i)
		first := d.shardIndex(id)
		assert.Equal(t, first, d.shardIndex(id))
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 8)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, newRecordingService(0), zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_PreservesPerAppOrder(t *testing.T) {
	const perApp = 20
	apps := []string{"app-a", "app-b", "app-c"}
	svc := newRecordingService(perApp * len(apps))
	svc.delay = time.Millisecond

	d := NewDispatcher(4, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	base := time.Unix(1_780_000_000, 0)
	var batch []ports.ModerationInput
	for i := 0; i < perApp; i++ {
		for _, app := range apps {
			batch = append(batch, ports.ModerationInput{AppID: app, Status: "approved", Timestamp: base.Add(time.Duration(i) * time.Second)})
		}
	}
	d.EnqueueBatch(batch)
	waitFor(t, svc.done)

	last := map[string]time.Time{}
	for _, in := range svc.inputs() {
		prev, ok := last[in.AppID]
		if ok {
			require.True(t, in.Timestamp.After(prev), "decisions for %s applied out of order", in.AppID)
		}
		last[in.AppID] = in.Timestamp
	}
}

func TestDispatcher_ContinuesAfterFailure(t *testing.T) {
	svc := newRecordingService(2)
	svc.fail["app-bad"] = fmt.Errorf("moderate app: %w", domain.ErrInvalidTransition)

	d := NewDispatcher(1, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.ModerationInput{AppID: "app-bad", Status: "approved"})
	d.Enqueue(ports.ModerationInput{AppID: "app-good", Status: "approved"})
	waitFor(t, svc.done)

	assert.Len(t, svc.inputs(), 2)
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	d := NewDispatcher(3, newRecordingService(0), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	stopped := make(chan struct{})
	go func() {
		d.Wait()
		close(stopped)
	}()
	waitFor(t, stopped)
}

func TestErrorReason(t *testing.T) {
	assert.Equal(t, "invalid_transition", errorReason(fmt.Errorf("x: %w", domain.ErrInvalidTransition)))
	assert.Equal(t, "app_not_found", errorReason(fmt.Errorf("x: %w", domain.ErrAppNotFound)))
	assert.Equal(t, "update_failed", errorReason(errors.New("boom")))
}
