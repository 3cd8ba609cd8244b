package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	mu      sync.Mutex
	evict   int
	befores []time.Time
}

func (s *fakeSweeper) Sweep(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.befores = append(s.befores, before)
	return s.evict
}

func (s *fakeSweeper) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.befores)
}

func TestSessionJanitor_Sweep(t *testing.T) {
	t.Parallel()

	sessions := &fakeSweeper{evict: 2}
	drafts := &fakeSweeper{evict: 1}

	j := NewSessionJanitor("@every 1m", 30*time.Minute, zap.NewNop(), sessions, drafts)
	j.now = func() time.Time { return testTime }

	assert.Equal(t, 3, j.Sweep())
	assert.Equal(t, []time.Time{testTime.Add(-30 * time.Minute)}, sessions.befores)
	assert.Equal(t, sessions.befores, drafts.befores)
}

func TestSessionJanitor_StartRunsOnSchedule(t *testing.T) {
	t.Parallel()

	sweeper := &fakeSweeper{}
	j := NewSessionJanitor("@every 1s", time.Minute, zap.NewNop(), sweeper)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.calls() > 0 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestSessionJanitor_InvalidSchedule(t *testing.T) {
	t.Parallel()

	j := NewSessionJanitor("not a schedule", time.Minute, zap.NewNop(), &fakeSweeper{})

	done := make(chan struct{})
	go func() {
		j.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor with an invalid schedule must return")
	}
}
