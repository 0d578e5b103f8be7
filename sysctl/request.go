// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"github.com/sysreg/sysctl/envelope"
	"github.com/sysreg/sysctl/errno"
)

// Transport crosses the trust boundary between engine memory and
// buffer memory. Two implementations exist: an in-process transport
// (plain memory copy, for KernelCall) and a cross-trust transport (a
// validator + copy primitive, for UserCall).
type Transport interface {
	// CopyOut copies engine-memory src into dst, the slice of the
	// caller's old-output buffer this call targets.
	CopyOut(dst, src []byte) error
	// CopyIn copies src, a slice of the caller's new-input buffer, into
	// engine memory dst.
	CopyIn(dst, src []byte) error
	// CrossTrust reports whether this transport crosses a trust
	// boundary, so Request.Out knows whether to lazily pin the
	// destination pages on first write.
	CrossTrust() bool
}

type inProcessTransport struct{}

func (inProcessTransport) CopyOut(dst, src []byte) error { copy(dst, src); return nil }
func (inProcessTransport) CopyIn(dst, src []byte) error  { copy(dst, src); return nil }
func (inProcessTransport) CrossTrust() bool              { return false }

// InProcess is the Transport for trusted, in-process callers
// (KernelCall): a plain memory copy, no validation, no pinning.
var InProcess Transport = inProcessTransport{}

// Validator checks that a user-space buffer slice is accessible for the
// given direction before a cross-trust copy touches it. The real
// address-space validator lives with the host's memory subsystem; this
// is its callable shape.
type Validator func(buf []byte, write bool) error

type crossTrustTransport struct {
	validate Validator
}

func (c crossTrustTransport) CopyOut(dst, src []byte) error {
	if c.validate != nil {
		if err := c.validate(dst, true); err != nil {
			return err
		}
	}
	copy(dst, src)
	return nil
}

func (c crossTrustTransport) CopyIn(dst, src []byte) error {
	if c.validate != nil {
		if err := c.validate(src, false); err != nil {
			return err
		}
	}
	copy(dst, src)
	return nil
}

func (crossTrustTransport) CrossTrust() bool { return true }

// CrossTrust returns the Transport for untrusted, cross-trust callers
// (UserCall). validate may be nil to skip validation (tests).
func CrossTrust(validate Validator) Transport {
	return crossTrustTransport{validate: validate}
}

// CallerIdentity carries the information the dispatcher needs for
// privilege checks. The credentials subsystem proper lives outside this
// engine; this is the thin slice of it the dispatcher consumes.
type CallerIdentity struct {
	// Privileged reports whether the caller may write to nodes that are
	// not FlagAnyUser.
	Privileged bool
	// Jailed reports whether the caller is confined (affects the
	// FlagPrison policy, "PRISON_ROOT").
	Jailed bool
}

// Request is the per-call I/O cursor mediating one access across the
// trust boundary.
type Request struct {
	Caller CallerIdentity

	oldBuf      []byte
	oldProvided bool
	oldCursor   int

	newBuf      []byte
	newProvided bool
	newCursor   int

	transport Transport
	ticket    *envelope.Ticket
	noLock    bool
}

// NewRequest builds a Request. old is the destination buffer for read
// output (nil if the caller only wants the required size); new is the
// source buffer for write input (nil for a pure read).
func NewRequest(caller CallerIdentity, transport Transport, old, new []byte) *Request {
	r := &Request{Caller: caller, transport: transport}
	if old != nil {
		r.oldBuf = old
		r.oldProvided = true
	}
	if new != nil {
		r.newBuf = new
		r.newProvided = true
	}
	return r
}

// HasOldOutput reports whether a destination buffer was supplied (even
// a zero-length one): the default handlers use this to decide whether to
// attempt a read at all.
func (r *Request) HasOldOutput() bool { return r.oldProvided }

// HasNewInput reports whether a source buffer was supplied.
func (r *Request) HasNewInput() bool { return r.newProvided }

// Out appends len(p) bytes from engine memory p to the old-output
// buffer, advancing the old-cursor by the full requested length
// regardless of truncation — so the final cursor reveals the size that
// would have been required. It copies only as much as fits; the
// buffer-exhaustion determination happens once, at the top level, by
// comparing the final cursor against the buffer length (ResultSize).
func (r *Request) Out(p []byte) error {
	l := len(p)
	if r.oldProvided {
		avail := len(r.oldBuf) - r.oldCursor
		if avail > 0 {
			n := l
			if n > avail {
				n = avail
			}
			if n > 0 {
				if err := r.transport.CopyOut(r.oldBuf[r.oldCursor:r.oldCursor+n], p[:n]); err != nil {
					return err
				}
				if r.ticket != nil && r.transport.CrossTrust() {
					r.ticket.Pin(r.noLock)
				}
			}
		}
	}
	r.oldCursor += l
	return nil
}

// In consumes len(dst) bytes from the new-input buffer into engine
// memory dst, advancing the new-cursor. It fails with errno.Invalid if
// insufficient input remains.
func (r *Request) In(dst []byte) errno.Errno {
	l := len(dst)
	if l == 0 {
		return errno.OK
	}
	if len(r.newBuf)-r.newCursor < l {
		return errno.Invalid
	}
	if err := r.transport.CopyIn(dst, r.newBuf[r.newCursor:r.newCursor+l]); err != nil {
		return errno.Invalid
	}
	r.newCursor += l
	return errno.OK
}

// NewRemaining returns the number of unconsumed bytes left in the
// new-input buffer.
func (r *Request) NewRemaining() int {
	return len(r.newBuf) - r.newCursor
}

// OldCursor returns the raw old-cursor: the full requested size,
// independent of truncation.
func (r *Request) OldCursor() int { return r.oldCursor }

// ResultSize implements the caller-facing cursor semantics: if an old
// buffer was provided and the cursor overran it, the reported size is
// the buffer length (truncated is true); otherwise it is the exact
// cursor value.
func (r *Request) ResultSize() (size int, truncated bool) {
	if r.oldProvided && r.oldCursor > len(r.oldBuf) {
		return len(r.oldBuf), true
	}
	return r.oldCursor, false
}

// checkPrivilege is the jail-aware privilege check applied to writes:
// unprivileged callers are refused unless the node is
// FlagAnyUser (checked by the dispatcher before calling this) or the
// node is FlagPrison and the caller is jailed (a jailed caller is
// "inside" PRISON_ROOT policy).
func (r *Request) checkPrivilege(prison bool) errno.Errno {
	if r.Caller.Privileged {
		return errno.OK
	}
	if prison && r.Caller.Jailed {
		return errno.OK
	}
	return errno.Perm
}
