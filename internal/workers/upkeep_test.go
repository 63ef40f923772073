package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "raffle-tool-backend/internal/common/errors"
)

type fakeUpkeepService struct {
	mu       sync.Mutex
	needed   bool
	failWith error
	performs int
}

func (s *fakeUpkeepService) CheckUpkeep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needed
}

func (s *fakeUpkeepService) PerformUpkeep(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	s.performs++
	s.needed = false
	return "req-1", nil
}

func (s *fakeUpkeepService) performCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.performs
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition was not reached in time")
}

func TestUpkeepWorkerTriggersDrawWhenNeeded(t *testing.T) {
	svc := &fakeUpkeepService{needed: true}
	worker := NewUpkeepWorker(svc, time.Millisecond)

	worker.Start()
	defer worker.Stop()

	waitFor(t, func() bool { return svc.performCount() == 1 })

	// conditions no longer hold, so the worker must not trigger again
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, svc.performCount())
}

func TestUpkeepWorkerIdleWhenNotNeeded(t *testing.T) {
	svc := &fakeUpkeepService{needed: false}
	worker := NewUpkeepWorker(svc, time.Millisecond)

	worker.Start()
	time.Sleep(20 * time.Millisecond)
	worker.Stop()

	require.Zero(t, svc.performCount())
}

func TestUpkeepWorkerSurvivesLostRace(t *testing.T) {
	svc := &fakeUpkeepService{
		needed:   true,
		failWith: apperrors.NewUpkeepNotNeededError("drawing", "0", 0),
	}
	worker := NewUpkeepWorker(svc, time.Millisecond)

	worker.Start()
	time.Sleep(20 * time.Millisecond)
	worker.Stop()

	// the error is swallowed and the worker keeps polling
	require.Zero(t, svc.performCount())
}

func TestUpkeepWorkerStopIsIdempotentlySafe(t *testing.T) {
	svc := &fakeUpkeepService{}
	worker := NewUpkeepWorker(svc, time.Millisecond)

	worker.Start()
	worker.Stop()

	// no tick may fire after Stop returns
	svc.mu.Lock()
	svc.needed = true
	svc.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	require.Zero(t, svc.performCount())
}
