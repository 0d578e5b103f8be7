// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

// nodeSnapshot is a plain, exported-field copy of a Node subtree, built
// so github.com/kylelemons/godebug/pretty (which only walks exported
// fields) can structurally diff two tree states.
type nodeSnapshot struct {
	ID       int32
	Name     string
	RefCount int32
	Children []nodeSnapshot
}

func snapshotTree(n *Node) nodeSnapshot {
	children := make([]nodeSnapshot, 0, len(n.children))
	for _, c := range n.children {
		children = append(children, snapshotTree(c))
	}
	return nodeSnapshot{ID: n.id, Name: n.name, RefCount: n.refCount, Children: children}
}
