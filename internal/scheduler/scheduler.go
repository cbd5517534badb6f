/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RecurringProcessor materializes due recurring transactions up to today.
type RecurringProcessor interface {
	ProcessRecurringTransactions(ctx context.Context, today time.Time) (int, error)
}

// RecurringSchedulerConfig contains configuration for RecurringScheduler
type RecurringSchedulerConfig struct {
	Processor       RecurringProcessor
	PollingInterval time.Duration
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

// RecurringScheduler runs recurring processing once at startup, to catch up
// on anything that came due while it was down, and then on every tick.
type RecurringScheduler struct {
	processor       RecurringProcessor
	pollingInterval time.Duration
	now             func() time.Time

	mutex    sync.Mutex
	runs     int
	created  int
	lastRun  time.Time
	started  bool
	stopOnce sync.Once

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
}

// Stats summarizes the scheduler's work since it started.
type Stats struct {
	Runs    int
	Created int
	LastRun time.Time
}

func NewRecurringScheduler(cfg RecurringSchedulerConfig) *RecurringScheduler {
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &RecurringScheduler{
		processor:       cfg.Processor,
		pollingInterval: cfg.PollingInterval,
		now:             now,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start performs the catch-up run and starts the polling loop. A failing
// catch-up run aborts the start.
func (s *RecurringScheduler) Start(ctx context.Context) error {
	if s.pollingInterval <= 0 {
		return errors.New("polling interval must be positive")
	}

	s.mutex.Lock()
	if s.started {
		s.mutex.Unlock()
		return errors.New("scheduler already started")
	}
	s.started = true
	s.mutex.Unlock()

	zap.L().Info("Starting recurring scheduler")
	if err := s.runOnce(ctx); err != nil {
		close(s.doneChan)
		return err
	}

	go s.pollLoop(ctx)

	zap.L().Info("Recurring scheduler started successfully",
		zap.Duration("polling_interval", s.pollingInterval))
	return nil
}

// Stop gracefully stops the scheduler and waits for the loop to exit. It is
// a no-op on a scheduler that was never started.
func (s *RecurringScheduler) Stop() {
	s.mutex.Lock()
	started := s.started
	s.mutex.Unlock()
	if !started {
		return
	}

	zap.L().Info("Stopping recurring scheduler")
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.doneChan
	zap.L().Info("Recurring scheduler stopped")
}

func (s *RecurringScheduler) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return Stats{Runs: s.runs, Created: s.created, LastRun: s.lastRun}
}

func (s *RecurringScheduler) pollLoop(ctx context.Context) {
	defer close(s.doneChan)

	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.runOnce(ctx); err != nil {
				zap.L().Error("Recurring processing failed", zap.Error(err))
			}
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *RecurringScheduler) runOnce(ctx context.Context) error {
	today := s.now()
	created, err := s.processor.ProcessRecurringTransactions(ctx, today)

	s.mutex.Lock()
	s.runs++
	s.created += created
	s.lastRun = today
	s.mutex.Unlock()

	if err != nil {
		return err
	}
	if created > 0 {
		zap.L().Info("Recurring transactions materialized",
			zap.Int("created", created),
			zap.Time("as_of", today))
	} else {
		zap.L().Debug("No recurring transactions due", zap.Time("as_of", today))
	}
	return nil
}
