// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"context"
	"testing"

	"github.com/sysreg/sysctl/errno"
)

func TestWriteToConstantInt(t *testing.T) {
	tr := NewTree(nil)
	leaf := NewLeaf("const", AutoID, MakeKind(TypeInt, FlagReadable, FlagWritable, FlagAnyUser), nil, 7, HandleInt, "I", "")
	if _, err := tr.Add(tr.Root(), leaf, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	req := NewRequest(CallerIdentity{}, InProcess, nil, make([]byte, 4))
	if err := tr.Call(context.Background(), []int32{leaf.ID()}, req); err != errno.Perm {
		t.Fatalf("write to constant-backed int = %v, want errno.Perm", err)
	}
}

func TestUnprivilegedWriteWithoutAnyUserFails(t *testing.T) {
	tr := NewTree(nil)
	var v int32
	leaf := NewLeaf("secure", AutoID, MakeKind(TypeInt, FlagReadable, FlagWritable), &v, 0, HandleInt, "I", "")
	if _, err := tr.Add(tr.Root(), leaf, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	req := NewRequest(CallerIdentity{}, InProcess, nil, make([]byte, 4))
	if err := tr.Call(context.Background(), []int32{leaf.ID()}, req); err != errno.Perm {
		t.Fatalf("unprivileged write = %v, want errno.Perm", err)
	}
}

func TestPrivilegedWriteWithoutAnyUserSucceeds(t *testing.T) {
	tr := NewTree(nil)
	var v int32
	leaf := NewLeaf("secure", AutoID, MakeKind(TypeInt, FlagReadable, FlagWritable), &v, 0, HandleInt, "I", "")
	if _, err := tr.Add(tr.Root(), leaf, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	req := NewRequest(CallerIdentity{Privileged: true}, InProcess, nil, []byte{9, 0, 0, 0})
	if err := tr.Call(context.Background(), []int32{leaf.ID()}, req); err != errno.OK {
		t.Fatalf("privileged write: %v", err)
	}
	if v != 9 {
		t.Fatalf("v = %d, want 9", v)
	}
}

func TestInteriorWithoutHandlerIsDir(t *testing.T) {
	tr := NewTree(nil)
	group, err := tr.Add(tr.Root(), NewInterior("kern", AutoID, 0, nil, "", ""), nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	req := NewRequest(CallerIdentity{}, InProcess, make([]byte, 4), nil)
	if err := tr.Call(context.Background(), []int32{group.ID()}, req); err != errno.IsDir {
		t.Fatalf("read of a plain interior node = %v, want errno.IsDir", err)
	}
}

// TestDispatcherRetryReResolvesUnderTheSameEnvelope has the handler ask
// for one retry before it succeeds, to exercise the retry loop and
// Call's envelope-stays-held-across-retries guarantee. The handler
// writes output before asking for the retry, so the test also confirms
// each attempt starts over on a rewound request rather than appending to
// the failed attempt's output.
func TestDispatcherRetryReResolvesUnderTheSameEnvelope(t *testing.T) {
	tr := NewTree(nil)
	attempts := 0
	var retryHandler HandlerFunc = func(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
		attempts++
		req.Out([]byte{1, 2, 3, 4})
		if attempts == 1 {
			return errno.Retry
		}
		return errno.OK
	}
	leaf := NewLeaf("flaky", AutoID, MakeKind(TypeInt, FlagReadable), nil, 0, retryHandler, "I", "")
	if _, err := tr.Add(tr.Root(), leaf, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	req := NewRequest(CallerIdentity{}, InProcess, make([]byte, 4), nil)
	if err := tr.Call(context.Background(), []int32{leaf.ID()}, req); err != errno.OK {
		t.Fatalf("call: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if size, truncated := req.ResultSize(); size != 4 || truncated {
		t.Fatalf("ResultSize = (%d, %v), want (4, false): retry must rewind the cursor", size, truncated)
	}
}
