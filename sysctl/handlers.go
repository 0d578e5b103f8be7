// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"encoding/binary"

	"github.com/sysreg/sysctl/errno"
)

// HandleInt is the default handler for TypeInt leaves. arg1 is
// expected to be a *int32 backing the value, or nil, in which case the
// value is the read-only constant carried in arg2. Writing to a
// constant-backed node fails with errno.Perm.
func HandleInt(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
	ptr, _ := arg1.(*int32)

	if req.HasOldOutput() {
		v := int32(arg2)
		if ptr != nil {
			v = *ptr
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		if err := req.Out(buf[:]); err != nil {
			return errno.Invalid
		}
	}

	if req.HasNewInput() {
		if ptr == nil {
			return errno.Perm
		}
		var buf [4]byte
		if err := req.In(buf[:]); err != errno.OK {
			return err
		}
		*ptr = int32(binary.LittleEndian.Uint32(buf[:]))
	}
	return errno.OK
}

// HandleLong is the default handler for TypeQuad leaves. arg1 must be a
// *int64; a nil arg1 always fails with errno.Invalid (there is no
// constant-backed long, unlike int).
func HandleLong(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
	ptr, _ := arg1.(*int64)
	if ptr == nil {
		return errno.Invalid
	}

	if req.HasOldOutput() {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(*ptr))
		if err := req.Out(buf[:]); err != nil {
			return errno.Invalid
		}
	}

	if req.HasNewInput() {
		var buf [8]byte
		if err := req.In(buf[:]); err != errno.OK {
			return err
		}
		*ptr = int64(binary.LittleEndian.Uint64(buf[:]))
	}
	return errno.OK
}

// HandleString is the default handler for TypeString leaves. arg1 must
// be a []byte of capacity arg2 (the maximum including terminator); a nil
// arg1 fails with errno.Invalid.
//
// Read emits the current NUL-terminated contents (strlen(arg1)+1 bytes,
// so a truncated read's required-size cursor includes the terminator).
// Write requires that the incoming payload, plus the terminator the
// engine appends, fit within arg2: a payload of exactly arg2-1 bytes is
// the largest accepted.
func HandleString(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
	buf, _ := arg1.([]byte)
	if buf == nil {
		return errno.Invalid
	}
	max := int(arg2)
	if max > len(buf) {
		max = len(buf)
	}

	if req.HasOldOutput() {
		n := 0
		for n < max && buf[n] != 0 {
			n++
		}
		if n >= max {
			n = max - 1
		}
		if err := req.Out(buf[:n+1]); err != nil {
			return errno.Invalid
		}
	}

	if req.HasNewInput() {
		incoming := req.NewRemaining()
		if incoming+1 > max {
			return errno.Invalid
		}
		if err := req.In(buf[:incoming]); err != errno.OK {
			return err
		}
		buf[incoming] = 0
	}
	return errno.OK
}

// HandleOpaque is the default handler for TypeOpaque leaves. arg1 must
// be a []byte of exactly arg2 bytes; both directions operate on the
// full buffer.
func HandleOpaque(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
	buf, _ := arg1.([]byte)
	if buf == nil {
		return errno.Invalid
	}
	size := int(arg2)
	if size > len(buf) {
		size = len(buf)
	}

	if req.HasOldOutput() {
		if err := req.Out(buf[:size]); err != nil {
			return errno.Invalid
		}
	}

	if req.HasNewInput() {
		if err := req.In(buf[:size]); err != errno.OK {
			return err
		}
	}
	return errno.OK
}
