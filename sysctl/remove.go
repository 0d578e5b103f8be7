// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"log"

	"github.com/sysreg/sysctl/errno"
)

// RemoveOID removes a dynamic subtree:
//
//  1. node must carry FlagDynamic.
//  2. If node is interior and its ref count is 1:
//     - without recurse, a non-empty node fails with errno.NotEmpty.
//     - with recurse, children are removed depth-first; a child failure
//     propagates.
//  3. If node's ref count is > 1, it is decremented and node stays
//     registered — this is the "shared interior node" case.
//  4. Otherwise (ref count == 1) node is unregistered; with free, its
//     name is also cleared (an interior node's child list was already
//     dropped in step 2).
//
// A ref count of 0 at entry is a diagnostic: it never happens under
// correct bookkeeping, so RemoveOID reports errno.Invalid without
// touching the tree.
func (t *Tree) RemoveOID(node *Node, free, recurse bool) error {
	if node == nil {
		return errno.Invalid
	}
	t.structMu.Lock()
	defer t.structMu.Unlock()
	return t.removeOIDLocked(node, free, recurse)
}

// removeOIDLocked checks FlagDynamic itself (not just at the RemoveOID
// entry point) so a recursive removal refuses a non-dynamic child the
// same way it refuses a non-dynamic root.
func (t *Tree) removeOIDLocked(node *Node, free, recurse bool) error {
	if !node.kind.Has(FlagDynamic) {
		log.Printf("sysctl: can't remove non-dynamic node %q", node.name)
		return errno.Invalid
	}
	if node.IsInterior() && node.refCount == 1 {
		children := node.children
		if !recurse && len(children) > 0 {
			return errno.NotEmpty
		}
		for _, child := range children {
			if err := t.removeOIDLocked(child, free, recurse); err != nil {
				return err
			}
		}
		if free {
			node.children = nil
		}
	}

	switch {
	case node.refCount > 1:
		node.refCount--
	case node.refCount == 0:
		log.Printf("sysctl: bad ref count 0 on node %q", node.name)
		return errno.Invalid
	default: // refCount == 1
		t.unregisterLocked(node)
		if free {
			node.name = ""
		}
	}
	return nil
}
