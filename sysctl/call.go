// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"context"
	"encoding/binary"

	"github.com/sysreg/sysctl/errno"
)

// UserCall is the cross-trust entry point: path must have between
// two and MaxPathDepth elements — a bare top-level id is never a legal
// call, matching the BSD kernel's own namelen<2 rejection, which
// exists because a single top-level component can only ever name an
// interior node, never something worth reading or writing. caller
// identifies the untrusted requester; old/new are the untrusted
// buffers, validated by validate before any copy touches them.
func UserCall(ctx context.Context, t *Tree, path []int32, caller CallerIdentity, validate Validator, old, new []byte) (result []byte, size int, truncated bool, err errno.Errno) {
	if len(path) < 2 || len(path) > t.opts.maxPathDepth() {
		return nil, 0, false, errno.Invalid
	}
	req := NewRequest(caller, CrossTrust(validate), old, new)
	return finishCall(t, ctx, path, req, old)
}

// KernelCall is the in-process, trusted entry point: no two-element
// path floor (only an empty path is rejected), full privilege, a plain
// memory-copy transport.
func KernelCall(ctx context.Context, t *Tree, path []int32, old, new []byte) (result []byte, size int, truncated bool, err errno.Errno) {
	if len(path) == 0 || len(path) > t.opts.maxPathDepth() {
		return nil, 0, false, errno.Invalid
	}
	req := NewRequest(CallerIdentity{Privileged: true}, InProcess, old, new)
	return finishCall(t, ctx, path, req, old)
}

// finishCall runs the dispatch and applies the caller-facing cursor
// semantics: a buffer-exhaustion result becomes plain success with the
// truncated flag set and the size clamped to the destination length, so
// the caller learns both the prefix it got and that more was available.
// Every other error short-circuits with the cursors frozen.
func finishCall(t *Tree, ctx context.Context, path []int32, req *Request, old []byte) (result []byte, size int, truncated bool, err errno.Errno) {
	callErr := t.Call(ctx, path, req)
	if callErr != errno.OK && callErr != errno.NoMemory {
		return nil, 0, false, callErr
	}
	size, truncated = req.ResultSize()
	return old, size, truncated, errno.OK
}

// KernelCallByName resolves name through the name2oid introspection
// handler and then issues the resulting numeric path as a KernelCall,
// the same two-call composition sysctlbyname(3) performs in userspace.
func KernelCallByName(ctx context.Context, t *Tree, name string, old, new []byte) (result []byte, size int, truncated bool, err errno.Errno) {
	oidBuf := make([]byte, 4*MaxPathDepth)
	_, oidSize, _, resolveErr := KernelCall(ctx, t, []int32{0, 3}, oidBuf, []byte(name))
	if resolveErr != errno.OK {
		return nil, 0, false, resolveErr
	}

	path := make([]int32, oidSize/4)
	for i := range path {
		path[i] = int32(binary.LittleEndian.Uint32(oidBuf[i*4:]))
	}
	return KernelCall(ctx, t, path, old, new)
}
