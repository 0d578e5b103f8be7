// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"testing"

	"github.com/sysreg/sysctl/errno"
)

func TestAutoIDAssignment(t *testing.T) {
	tr := NewTree(nil)
	parent := NewInterior("group", AutoID, 0, nil, "", "")
	if _, err := tr.Register(parent); err != nil {
		t.Fatalf("register parent: %v", err)
	}

	a := NewLeaf("a", AutoID, MakeKind(TypeInt, FlagReadable), nil, 1, HandleInt, "I", "")
	a.parent = parent
	if _, err := tr.Register(a); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if got := a.ID(); got != 100 {
		t.Errorf("first auto id = %d, want 100", got)
	}

	b := NewLeaf("b", AutoID, MakeKind(TypeInt, FlagReadable), nil, 2, HandleInt, "I", "")
	b.parent = parent
	if _, err := tr.Register(b); err != nil {
		t.Fatalf("register b: %v", err)
	}
	if got := b.ID(); got != 101 {
		t.Errorf("second auto id = %d, want 101", got)
	}

	explicit := NewLeaf("c", 50, MakeKind(TypeInt, FlagReadable), nil, 3, HandleInt, "I", "")
	explicit.parent = parent
	if _, err := tr.Register(explicit); err != nil {
		t.Fatalf("register c: %v", err)
	}

	next := NewLeaf("d", AutoID, MakeKind(TypeInt, FlagReadable), nil, 4, HandleInt, "I", "")
	next.parent = parent
	if _, err := tr.Register(next); err != nil {
		t.Fatalf("register d: %v", err)
	}
	if got := next.ID(); got != 102 {
		t.Errorf("auto id after explicit low id = %d, want 102 (unaffected by lower explicit id)", got)
	}
}

// TestAutoIDAssignmentFromExplicitSiblings: a parent with existing
// children {5, 7} assigns id 100 to a new AUTO registration, since 99
// is the greatest reserved well-known id.
func TestAutoIDAssignmentFromExplicitSiblings(t *testing.T) {
	tr := NewTree(nil)
	parent := NewInterior("group", AutoID, 0, nil, "", "")
	if _, err := tr.Register(parent); err != nil {
		t.Fatalf("register parent: %v", err)
	}

	five := NewLeaf("five", 5, MakeKind(TypeInt, FlagReadable), nil, 0, HandleInt, "I", "")
	five.parent = parent
	if _, err := tr.Register(five); err != nil {
		t.Fatalf("register five: %v", err)
	}
	seven := NewLeaf("seven", 7, MakeKind(TypeInt, FlagReadable), nil, 0, HandleInt, "I", "")
	seven.parent = parent
	if _, err := tr.Register(seven); err != nil {
		t.Fatalf("register seven: %v", err)
	}

	x := NewInterior("x", AutoID, 0, nil, "", "")
	x.parent = parent
	if _, err := tr.Register(x); err != nil {
		t.Fatalf("register x: %v", err)
	}
	if got := x.ID(); got != 100 {
		t.Errorf("auto id with siblings {5,7} = %d, want 100", got)
	}

	ids := make([]int32, 0, 3)
	for _, c := range parent.Children() {
		ids = append(ids, c.ID())
	}
	if want := []int32{5, 7, 100}; !equalInt32(ids, want) {
		t.Errorf("children ids = %v, want %v", ids, want)
	}
}

func equalInt32(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSharedInteriorRefCount(t *testing.T) {
	tr := NewTree(nil)

	first := NewInterior("net", AutoID, 0, nil, "", "")
	got1, err := tr.Register(first)
	if err != nil {
		t.Fatalf("register first: %v", err)
	}
	if got1.RefCount() != 1 {
		t.Fatalf("refcount after first registration = %d, want 1", got1.RefCount())
	}

	second := NewInterior("net", AutoID, 0, nil, "", "")
	got2, err := tr.Register(second)
	if err != nil {
		t.Fatalf("register second: %v", err)
	}
	if got2 != got1 {
		t.Fatalf("second registration of the same name did not fold into the first node")
	}
	if got1.RefCount() != 2 {
		t.Fatalf("refcount after second registration = %d, want 2", got1.RefCount())
	}
}

func TestDuplicateLeafRegistrationFails(t *testing.T) {
	tr := NewTree(nil)

	a := NewLeaf("x", AutoID, MakeKind(TypeInt, FlagReadable), nil, 1, HandleInt, "I", "")
	if _, err := tr.Register(a); err != nil {
		t.Fatalf("register a: %v", err)
	}

	b := NewLeaf("x", AutoID, MakeKind(TypeInt, FlagReadable), nil, 2, HandleInt, "I", "")
	_, err := tr.Register(b)
	if err != errno.Invalid {
		t.Fatalf("duplicate leaf registration = %v, want errno.Invalid", err)
	}
}
