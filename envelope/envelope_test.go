// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package envelope

import (
	"context"
	"testing"
	"time"
)

func TestAcquireExcludesConcurrentHolders(t *testing.T) {
	e := New()
	ticket, err := e.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := e.Acquire(ctx); err == nil {
		t.Fatalf("second Acquire succeeded while the envelope was held")
	}

	ticket.Release()

	ticket2, err := e.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
	ticket2.Release()
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	e := New()
	held, err := e.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer held.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Acquire(ctx); err == nil {
		t.Fatalf("Acquire with an already-cancelled context succeeded")
	}
}

func TestPinTransitionsOnceThenSticks(t *testing.T) {
	e := New()
	ticket, err := e.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ticket.Pin(false)
	if got := e.PinCount(); got != 1 {
		t.Fatalf("PinCount after first Pin = %d, want 1", got)
	}
	if ticket.State() != LockUserPinned {
		t.Fatalf("state after Pin = %v, want LockUserPinned", ticket.State())
	}

	// A second Pin on an already-pinned ticket is a no-op: the count
	// must not double-increment for repeated writes in the same call.
	ticket.Pin(false)
	if got := e.PinCount(); got != 1 {
		t.Fatalf("PinCount after second Pin = %d, want 1", got)
	}

	ticket.Release()
	if got := e.PinCount(); got != 0 {
		t.Fatalf("PinCount after Release = %d, want 0", got)
	}
}

func TestNoLockSuppressesPinning(t *testing.T) {
	e := New()
	ticket, err := e.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer ticket.Release()

	ticket.Pin(true)
	if got := e.PinCount(); got != 0 {
		t.Fatalf("PinCount after a NO_LOCK pin = %d, want 0", got)
	}
	if ticket.State() != LockWanted {
		t.Fatalf("state after a NO_LOCK pin = %v, want LockWanted", ticket.State())
	}
}
