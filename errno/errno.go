// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errno defines the error taxonomy that crosses every handler
// boundary in the registry engine: a single numeric error currency,
// mapped onto real errno(2) values, the way a syscall-facing API uses
// syscall.Errno as its sole error type.
package errno

import (
	"golang.org/x/sys/unix"
)

// Errno is a small integer error code. The zero value means success,
// mirroring the syscall.Errno(0) == nil convention used throughout
// syscall-facing Go APIs.
type Errno uint32

// Error implements the error interface.
func (e Errno) Error() string {
	if e == 0 {
		return "success"
	}
	if s, ok := names[e]; ok {
		return s
	}
	return unix.Errno(e).Error()
}

// Is reports whether e and target denote the same errno, so callers can
// write errors.Is(err, errno.NotFound) against a plain Errno value.
func (e Errno) Is(target error) bool {
	t, ok := target.(Errno)
	return ok && e == t
}

// OK is the zero Errno, returned by handlers on success.
const OK Errno = 0

// Registry error kinds, mapped onto golang.org/x/sys/unix numeric
// constants the way the BSD kernel maps its kinds
// onto plain errno(2) values.
const (
	// NotFound: path does not resolve, or the `debug` sentinel.
	NotFound = Errno(unix.ENOENT)
	// NotDir: path attempts to descend into a leaf.
	NotDir = Errno(unix.ENOTDIR)
	// IsDir: path terminates at an interior node with no handler.
	IsDir = Errno(unix.EISDIR)
	// Perm: write to read-only, to constant-backed int, or insufficient privilege.
	Perm = Errno(unix.EACCES)
	// Invalid: bad arguments (unwritable constant, size mismatch, null context).
	Invalid = Errno(unix.EINVAL)
	// NameTooLong: textual name larger than the max path buffer.
	NameTooLong = Errno(unix.ENAMETOOLONG)
	// NoMemory: old-output buffer exhausted during a partial write.
	NoMemory = Errno(unix.ENOMEM)
	// Busy: context teardown aborted because some node could not be removed.
	Busy = Errno(unix.EBUSY)
	// NotEmpty: attempt to remove a non-empty interior node without recurse.
	NotEmpty = Errno(unix.ENOTEMPTY)
)

// Retry is an internal dispatcher signal: a handler may return Retry to
// ask the dispatcher to re-run resolution+invocation from the top with a
// freshly-copied Request. It never crosses the UserCall/KernelCall
// boundary — the dispatcher loop consumes it.
const Retry = Errno(unix.EAGAIN)

// Interrupted reports that a caller queued behind the envelope was
// cancelled before acquiring it.
const Interrupted = Errno(unix.EINTR)

var names = map[Errno]string{
	NotFound:    "not found",
	NotDir:      "not a directory",
	IsDir:       "is a directory",
	Perm:        "permission denied",
	Invalid:     "invalid argument",
	NameTooLong: "name too long",
	NoMemory:    "destination buffer too small",
	Busy:        "busy",
	NotEmpty:    "not empty",
	Retry:       "retry",
	Interrupted: "interrupted",
}
