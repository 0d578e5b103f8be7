// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package envelope implements the global serialization object that
// bounds one registry request's critical section at a time: a weighted
// semaphore of weight 1 standing in for a hand-rolled
// locked/waiters/wait-count triple, the same single-mutex-around-every-
// call shape a locking wrapper gives a dispatch interface, except here
// the gate accepts a context so a queued caller can be cancelled.
package envelope

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// LockState mirrors a Request's lock-state field: none, wanted, or
// user-pinned. It travels with the caller across the single call that
// acquired the Envelope.
type LockState int

const (
	// LockNone: no envelope interaction is in flight.
	LockNone LockState = iota
	// LockWanted: the envelope is held, no cross-trust buffer has been
	// pinned yet.
	LockWanted
	// LockUserPinned: a cross-trust transfer pinned the caller's buffer;
	// it must be unpinned before the envelope is released.
	LockUserPinned
)

// Envelope is the process-wide single-writer gate. At most one request
// runs its dispatcher past Acquire at a time.
type Envelope struct {
	sem *semaphore.Weighted

	// pinMu guards pinCount, which is purely diagnostic: it lets tests
	// assert that every pin acquired during a critical section was
	// unpinned before release.
	pinMu    sync.Mutex
	pinCount int
}

// New returns an Envelope ready for use.
func New() *Envelope {
	return &Envelope{sem: semaphore.NewWeighted(1)}
}

// Ticket represents one held envelope acquisition. Callers obtain one
// from Acquire and must call Release exactly once.
type Ticket struct {
	env   *Envelope
	state LockState
}

// Acquire blocks until the envelope is free, or ctx is cancelled. A
// per-node NO_LOCK opt-out never skips Acquire; it only changes whether
// a later Pin call inside the same still-held envelope actually pins
// (see Pin's noLock argument).
func (e *Envelope) Acquire(ctx context.Context) (*Ticket, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return &Ticket{env: e, state: LockWanted}, nil
}

// Pin transitions the ticket's lock-state from wanted to user-pinned,
// the way a cross-trust Request.out lazily pins the destination pages on
// first write. noLock suppresses the transition for this call's
// traversal of a NO_LOCK node without releasing the envelope itself.
func (t *Ticket) Pin(noLock bool) {
	if noLock {
		return
	}
	if t.state == LockWanted {
		t.state = LockUserPinned
		t.env.pinMu.Lock()
		t.env.pinCount++
		t.env.pinMu.Unlock()
	}
}

// State reports the ticket's current lock-state.
func (t *Ticket) State() LockState {
	return t.state
}

// Release unpins (if user-pinned) and releases the envelope. It must be
// called exactly once per successful Acquire, always via defer at the
// call site so the envelope is freed even when the dispatcher's handler
// panics or a RETRY loop exits early.
func (t *Ticket) Release() {
	if t.state == LockUserPinned {
		t.env.pinMu.Lock()
		t.env.pinCount--
		t.env.pinMu.Unlock()
		t.state = LockWanted
	}
	t.env.sem.Release(1)
}

// PinCount returns the number of tickets currently holding a pinned
// cross-trust buffer. It is exclusively for tests asserting the pinning
// protocol unwinds cleanly; production code has no use for it.
func (e *Envelope) PinCount() int {
	e.pinMu.Lock()
	defer e.pinMu.Unlock()
	return e.pinCount
}
