package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeProcessor struct {
	mu      sync.Mutex
	calls   int
	created int
	err     error
	called  chan time.Time
}

func newFakeProcessor(created int, err error) *fakeProcessor {
	return &fakeProcessor{created: created, err: err, called: make(chan time.Time, 100)}
}

func (f *fakeProcessor) ProcessRecurringTransactions(_ context.Context, today time.Time) (int, error) {
	f.mu.Lock()
	f.calls++
	err, created := f.err, f.created
	f.mu.Unlock()
	select {
	case f.called <- today:
	default:
	}
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (f *fakeProcessor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var fixedNow = time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)

func TestStart_CatchUpRunsImmediately(t *testing.T) {
	processor := newFakeProcessor(2, nil)
	s := NewRecurringScheduler(RecurringSchedulerConfig{
		Processor:       processor,
		PollingInterval: time.Hour,
		Now:             func() time.Time { return fixedNow },
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if processor.callCount() != 1 {
		t.Fatalf("Expected 1 catch-up run, got %d", processor.callCount())
	}
	if today := <-processor.called; !today.Equal(fixedNow) {
		t.Errorf("Expected run as of %v, got %v", fixedNow, today)
	}

	stats := s.Stats()
	if stats.Runs != 1 || stats.Created != 2 || !stats.LastRun.Equal(fixedNow) {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestPollLoop_RunsOnEveryTick(t *testing.T) {
	processor := newFakeProcessor(0, nil)
	s := NewRecurringScheduler(RecurringSchedulerConfig{
		Processor:       processor,
		PollingInterval: 5 * time.Millisecond,
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	timeout := time.After(2 * time.Second)
	for i := 0; i < 3; i++ {
		select {
		case <-processor.called:
		case <-timeout:
			t.Fatalf("Expected at least 3 runs, got %d", processor.callCount())
		}
	}

	s.Stop()
	after := processor.callCount()
	time.Sleep(20 * time.Millisecond)
	if processor.callCount() != after {
		t.Errorf("Expected no runs after Stop, got %d more", processor.callCount()-after)
	}
}

func TestPollLoop_KeepsRunningAfterFailure(t *testing.T) {
	processor := newFakeProcessor(0, nil)
	s := NewRecurringScheduler(RecurringSchedulerConfig{
		Processor:       processor,
		PollingInterval: 5 * time.Millisecond,
	})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()
	<-processor.called

	processor.mu.Lock()
	processor.err = errors.New("database is locked")
	processor.mu.Unlock()

	timeout := time.After(2 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-processor.called:
		case <-timeout:
			t.Fatal("Expected the loop to keep polling after a failed run")
		}
	}
}

func TestStart_CatchUpFailureAborts(t *testing.T) {
	processor := newFakeProcessor(0, errors.New("boom"))
	s := NewRecurringScheduler(RecurringSchedulerConfig{
		Processor:       processor,
		PollingInterval: time.Hour,
	})

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Expected Start to fail")
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after a failed start")
	}
}

func TestStart_Rejections(t *testing.T) {
	processor := newFakeProcessor(0, nil)
	if err := NewRecurringScheduler(RecurringSchedulerConfig{Processor: processor}).Start(context.Background()); err == nil {
		t.Error("Expected error for a zero polling interval")
	}

	s := NewRecurringScheduler(RecurringSchedulerConfig{Processor: processor, PollingInterval: time.Hour})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()
	if err := s.Start(context.Background()); err == nil {
		t.Error("Expected error when starting twice")
	}
}

func TestStop_WithoutStart(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		start    bool
	}{
		{"never started", time.Hour, false},
		{"rejected start", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRecurringScheduler(RecurringSchedulerConfig{
				Processor:       newFakeProcessor(0, nil),
				PollingInterval: tt.interval,
			})
			if tt.start {
				if err := s.Start(context.Background()); err == nil {
					t.Fatal("Expected Start to fail")
				}
			}

			done := make(chan struct{})
			go func() {
				s.Stop()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("Stop blocked on a scheduler that never ran")
			}
		})
	}
}

func TestContextCancelStopsLoop(t *testing.T) {
	processor := newFakeProcessor(0, nil)
	s := NewRecurringScheduler(RecurringSchedulerConfig{Processor: processor, PollingInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	select {
	case <-s.doneChan:
	case <-time.After(time.Second):
		t.Fatal("Loop did not exit after context cancellation")
	}
	s.Stop()
}
