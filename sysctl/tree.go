// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"log"
	"sync"

	"github.com/sysreg/sysctl/envelope"
	"github.com/sysreg/sysctl/errno"
)

// Tree is the process-wide MIB registry: the ordered child-list of the
// tree root, plus the single Envelope that serializes every request
// running past the dispatcher.
//
// Tree is safe for concurrent use. Structural mutation (Register,
// Unregister, RemoveOID, Add) takes an internal mutex; request dispatch
// additionally goes through Envelope, so the tree is stable for the
// duration of one request's handler invocation.
type Tree struct {
	root *Node

	// structMu guards the shape of the tree: children slices, ids,
	// names, ref counts. It is deliberately separate from Envelope,
	// which serializes *requests*; dynamic registrations that must not
	// race a request in flight synchronize through the Envelope
	// themselves.
	structMu sync.Mutex

	// Envelope is the global serialization object gating one Request's
	// dispatcher execution at a time.
	Envelope *envelope.Envelope

	// SecurityLevel models the credentials subsystem's notion of
	// "elevated security level" that FlagSecure checks against. The
	// process/credentials subsystem proper lives outside this engine.
	SecurityLevel int

	opts *Options
}

// NewTree returns an empty registry with a fresh Envelope, configured by
// opts (nil selects DefaultOptions()).
func NewTree(opts *Options) *Tree {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Tree{
		root:     NewInterior("", 0, 0, nil, "", "registry root"),
		Envelope: envelope.New(),
		opts:     opts,
	}
}

// Root returns the synthetic root node. Its Children() is the
// top-level, numerically-addressed child list that FindOID walks.
func (t *Tree) Root() *Node { return t.root }

// Register inserts node into node.Parent()'s child list, preserving
// ascending-id order and assigning an AutoID if requested. If a sibling
// by the same name already exists:
//   - interior (TypeNode): the existing node's ref count is bumped and
//     node is discarded — the previously registered node wins.
//   - leaf: registration is refused with errno.Invalid; nothing changes.
//
// Register returns the node that is now authoritative for that name
// (either node itself, or the pre-existing interior node it was folded
// into).
func (t *Tree) Register(node *Node) (*Node, error) {
	t.structMu.Lock()
	defer t.structMu.Unlock()
	return t.registerLocked(node)
}

func (t *Tree) registerLocked(node *Node) (*Node, error) {
	parent := node.parent
	if parent == nil {
		parent = t.root
		node.parent = parent
	}

	if existing := parent.childByName(node.name); existing != nil {
		if existing.IsInterior() {
			existing.refCount++
			return existing, nil
		}
		log.Printf("sysctl: can't re-use a leaf (%s)", node.name)
		return nil, errno.Invalid
	}

	if node.id == AutoID {
		node.id = parent.nextAutoID(t.opts.firstAutoID())
	} else if parent.childByID(node.id) != nil {
		log.Printf("sysctl: id %d already in use (%s)", node.id, node.name)
		return nil, errno.Invalid
	}
	parent.insertSorted(node)
	if t.opts.Debug {
		log.Printf("sysctl: registered %q id=%d under %q", node.name, node.id, parent.name)
	}
	return node, nil
}

// Unregister unlinks node from its parent's child list. It does not
// recurse and does not touch node's ref count or children; callers that
// need the full teardown discipline (ref-count decrement, recursive
// child removal, two-phase rollback) use RemoveOID / DynContext.Free.
func (t *Tree) Unregister(node *Node) {
	t.structMu.Lock()
	defer t.structMu.Unlock()
	t.unregisterLocked(node)
}

func (t *Tree) unregisterLocked(node *Node) {
	if node.parent != nil {
		node.parent.removeChild(node.id)
	}
}

// Add allocates (or folds into an existing) dynamic node under parent.
//
//  1. parent == nil is rejected.
//  2. A same-named interior sibling has its ref count bumped; if ctx is
//     non-nil, an entry referencing it is appended and the existing node
//     is returned.
//  3. A same-named leaf sibling fails with errno.Invalid.
//  4. Otherwise node is linked under parent, marked FlagDynamic, given a
//     ref count of 1, and registered.
func (t *Tree) Add(parent *Node, node *Node, ctx *DynContext) (*Node, error) {
	if parent == nil {
		return nil, errno.Invalid
	}

	t.structMu.Lock()
	node.parent = parent
	if existing := parent.childByName(node.name); existing != nil {
		if existing.IsInterior() {
			existing.refCount++
			t.structMu.Unlock()
			if ctx != nil {
				ctx.add(existing)
			}
			return existing, nil
		}
		t.structMu.Unlock()
		log.Printf("sysctl: can't re-use a leaf (%s)", node.name)
		return nil, errno.Invalid
	}

	node.refCount = 1
	node.kind = node.kind.WithFlag(FlagDynamic)
	out, err := t.registerLocked(node)
	t.structMu.Unlock()
	if err != nil {
		return nil, err
	}
	if ctx != nil {
		ctx.add(out)
	}
	return out, nil
}
