// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"context"

	"github.com/sysreg/sysctl/errno"
)

// Call is the full per-request data flow: it acquires the Envelope,
// runs the resolve/dispatch/retry sequence, unpins any cross-trust
// buffer the handler pinned, and releases the Envelope before
// returning. The envelope stays held across retry re-attempts, since
// the dispatcher's retry loop runs entirely inside this one
// Acquire/Release pair.
func (t *Tree) Call(ctx context.Context, path []int32, req *Request) errno.Errno {
	ticket, err := t.Envelope.Acquire(ctx)
	if err != nil {
		return errno.Interrupted
	}
	req.ticket = ticket
	defer func() {
		req.ticket = nil
		ticket.Release()
	}()

	result := t.dispatch(path, req)
	if result == errno.OK && req.oldProvided && req.oldCursor > len(req.oldBuf) {
		// The handler ran to completion but the destination was too
		// small: report buffer exhaustion. The top-level entry points
		// translate this back into success with a truncated size.
		return errno.NoMemory
	}
	return result
}

// dispatch resolves path, checks permissions, and invokes the target
// handler, retrying the whole resolve+invoke sequence whenever a
// handler returns errno.Retry. dispatch assumes the Envelope is already
// held by the caller (Call) — it never acquires or releases it, so
// retry attempts observe a tree that cannot be mutated out from under
// them.
func (t *Tree) dispatch(path []int32, req *Request) errno.Errno {
	oldCursor, newCursor := req.oldCursor, req.newCursor
	for {
		node, consumed, noLock, err := t.FindOID(path)
		if err != errno.OK {
			return err
		}
		req.noLock = noLock

		if node.IsInterior() && !node.HasHandler() {
			return errno.IsDir
		}

		if req.HasNewInput() {
			if !node.kind.Has(FlagWritable) {
				return errno.Perm
			}
			if node.kind.Has(FlagSecure) && t.SecurityLevel > 0 {
				return errno.Perm
			}
			if !node.kind.Has(FlagAnyUser) {
				if permErr := req.checkPrivilege(node.kind.Has(FlagPrison)); permErr != errno.OK {
					return permErr
				}
			}
		}

		if !node.HasHandler() {
			return errno.Invalid
		}

		var result errno.Errno
		if node.IsInterior() {
			suffix := append([]int32(nil), path[consumed:]...)
			result = node.handler(node, interface{}(suffix), int64(len(suffix)), req)
		} else {
			result = node.handler(node, node.arg1, node.arg2, req)
		}

		if result == errno.Retry {
			// Re-run with the request as it was at entry: cursors the
			// failed attempt advanced are wound back, so each attempt
			// sees a fresh copy of the caller's buffers.
			req.oldCursor, req.newCursor = oldCursor, newCursor
			continue
		}
		return result
	}
}
