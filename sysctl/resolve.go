// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import "github.com/sysreg/sysctl/errno"

// MaxPathDepth is the longest legal numeric path.
const MaxPathDepth = 24

// FindOID walks path starting at the tree root. It returns the node the
// path resolves to, how many path elements were consumed to reach it,
// and whether the walk crossed a FlagNoLock node (in which case the
// caller should suppress buffer pinning for the rest of this call).
//
// A path that is not resolved within the depth bound degrades to
// errno.NotFound; there is no distinct error for an over-deep path.
func (t *Tree) FindOID(path []int32) (node *Node, consumed int, noLock bool, err errno.Errno) {
	t.structMu.Lock()
	defer t.structMu.Unlock()

	maxDepth := t.opts.maxPathDepth()
	list := t.root
	for i := 0; i < len(path) && i < maxDepth; i++ {
		child := list.childByID(path[i])
		if child == nil {
			return nil, 0, noLock, errno.NotFound
		}
		if child.kind.Has(FlagNoLock) {
			noLock = true
		}

		if child.IsInterior() {
			if child.handler != nil || i+1 == len(path) {
				return child, i + 1, noLock, errno.OK
			}
			list = child
			continue
		}

		// leaf
		if i+1 == len(path) {
			return child, i + 1, noLock, errno.OK
		}
		return nil, i + 1, noLock, errno.NotDir
	}
	return nil, 0, noLock, errno.NotFound
}
