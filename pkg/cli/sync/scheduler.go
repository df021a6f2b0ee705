/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sync

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Synchronizer runs a sync pass for an account. *Orchestrator implements it.
type Synchronizer interface {
	Synchronize(ctx context.Context, accountID int) Result
}

// Reporter receives the progress of scheduled passes. Its methods are called
// from the goroutine running the pass.
type Reporter interface {
	SyncStarted(accountID int)
	SyncFinished(result Result)
}

type nopReporter struct{}

func (nopReporter) SyncStarted(int)     {}
func (nopReporter) SyncFinished(Result) {}

// Scheduler runs sync passes in the background. At most one pass per
// account runs at a time. A pass requested while one is running for the same
// account is run once after it, however many times it was requested.
type Scheduler struct {
	ctx      context.Context
	syncer   Synchronizer
	reporter Reporter

	mu      sync.Mutex
	running map[int]bool
	pending map[int]bool
	wg      sync.WaitGroup
}

// NewScheduler returns a scheduler running the passes of syncer with the
// given context. A nil reporter discards the progress.
func NewScheduler(ctx context.Context, syncer Synchronizer, reporter Reporter) *Scheduler {
	if reporter == nil {
		reporter = nopReporter{}
	}

	return &Scheduler{
		ctx:      ctx,
		syncer:   syncer,
		reporter: reporter,
		running:  map[int]bool{},
		pending:  map[int]bool{},
	}
}

// Schedule requests a pass for the account
func (s *Scheduler) Schedule(accountID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running[accountID] {
		s.pending[accountID] = true
		return
	}

	s.running[accountID] = true
	s.wg.Add(1)
	go s.run(accountID)
}

// IsRunning reports whether a pass is running for the account
func (s *Scheduler) IsRunning(accountID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running[accountID]
}

func (s *Scheduler) run(accountID int) {
	defer s.wg.Done()

	for {
		s.reporter.SyncStarted(accountID)
		result := s.syncer.Synchronize(s.ctx, accountID)
		s.reporter.SyncFinished(result)

		s.mu.Lock()
		if !s.pending[accountID] || s.ctx.Err() != nil {
			delete(s.pending, accountID)
			delete(s.running, accountID)
			s.mu.Unlock()
			return
		}
		delete(s.pending, accountID)
		s.mu.Unlock()
	}
}

// Wait blocks until no pass is running or pending
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// SynchronizeAll runs one pass for each account, at most limit at a time,
// and returns the results in the order of the given ids. A limit below 1
// runs every pass at once.
func SynchronizeAll(ctx context.Context, syncer Synchronizer, accountIDs []int, limit int) []Result {
	results := make([]Result, len(accountIDs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, id := range accountIDs {
		g.Go(func() error {
			results[i] = syncer.Synchronize(gctx, id)
			return nil
		})
	}

	// passes report failures in their results
	_ = g.Wait()

	return results
}
