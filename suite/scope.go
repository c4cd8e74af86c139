// Copyright 2017 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package suite

import "sync/atomic"

// EnsureBeforeAll runs this scope's BeforeAll chain exactly once, regardless
// of how many concurrently-dispatched tests call it. Callers after the
// first block until the chain has resolved, then observe the same (ctx,
// err) pair. A non-nil err means every test in this scope reports
// SetupFailed with that error. The returned ran flag is true only for the
// single caller that actually executed the chain, so the engine can emit
// exactly one HookStarted/HookFinished(BeforeAll) pair per scope.
func (s *ScopeState[C]) EnsureBeforeAll(seed C) (ctx C, err error, ran bool) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		<-s.readyCh
		return s.ctxAfter, s.setupErr, false
	}
	s.started = true
	s.mu.Unlock()

	ctx = seed
	for _, fn := range s.BeforeAll {
		ctx, err = fn(ctx)
		if err != nil {
			break
		}
	}
	s.ctxAfter = ctx
	s.setupErr = err
	close(s.readyCh)
	return ctx, err, true
}

// ranBeforeAll reports whether this scope's BeforeAll completed
// successfully, used to decide whether AfterAll is "paired" and should run.
func (s *ScopeState[C]) ranBeforeAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && s.setupErr == nil
}

// CompleteOne records that one test belonging to this scope has finished.
// Once every test in the scope has completed, AfterAll runs exactly once --
// but only if BeforeAll previously succeeded for this scope. The returned
// ran flag is true only for the single call that completes the scope (the
// last of its tests to finish), whether or not AfterAll's functions ran in
// it: after a failed BeforeAll, ran is true and no AfterAll function runs.
func (s *ScopeState[C]) CompleteOne(ctx C) (err error, ran bool) {
	n := atomic.AddInt32(&s.completed, 1)
	if n < atomic.LoadInt32(&s.totalTests) {
		return nil, false
	}
	s.afterAllOnce.Do(func() {
		ran = true
		if !s.ranBeforeAll() {
			return
		}
		// AfterAll runs LIFO relative to declaration; plan.go already stores
		// s.AfterAll in reverse-declaration order (same trick as AfterEach),
		// so a forward walk here is the LIFO order.
		for _, fn := range s.AfterAll {
			if e := fn(ctx); e != nil && err == nil {
				err = e
			}
		}
	})
	return err, ran
}
