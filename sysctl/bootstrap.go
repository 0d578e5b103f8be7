// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"fmt"

	"github.com/sysreg/sysctl/errno"
)

// StaticEntry describes one statically-known registry node for
// Bootstrap: a flat table that a process's init code builds up front,
// the way BSD's SYSCTL_NODE/SYSCTL_INT macros populate
// a link-time table that sysctl_register_all walks once at boot.
//
// Path is the dotted name of this entry's parent ("" for a top-level
// entry); Node is the unregistered Node to attach under it.
type StaticEntry struct {
	Path string
	Node *Node
}

// Bootstrap registers a flat table of static entries against root in
// one pass, resolving each entry's parent by dotted name. A duplicate
// leaf name, an explicit id already used by a sibling, or an unresolvable
// parent stops the call with a descriptive error, so shape mistakes
// surface during process startup, never at request time; entries
// registered before the failing one stay registered. A repeated interior
// name folds into the existing node (Register's rule) instead of failing.
//
// Entries are processed in order, so a later entry may reference a
// parent registered earlier in the same table.
func (t *Tree) Bootstrap(entries []StaticEntry) error {
	for _, e := range entries {
		parent := t.root
		if e.Path != "" {
			path, err := t.nameToOID(e.Path)
			if err != errno.OK {
				return fmt.Errorf("sysctl: bootstrap: unresolved parent %q for %q: %w", e.Path, e.Node.name, err)
			}
			node, _, _, ferr := t.FindOID(path)
			if ferr != errno.OK {
				return fmt.Errorf("sysctl: bootstrap: unresolved parent %q for %q: %w", e.Path, e.Node.name, ferr)
			}
			parent = node
		}

		e.Node.parent = parent
		registered, err := t.Register(e.Node)
		if err != nil {
			return fmt.Errorf("sysctl: bootstrap: registering %q under %q: %w", e.Node.name, e.Path, err)
		}
		if registered != e.Node && !e.Node.IsInterior() {
			return fmt.Errorf("sysctl: bootstrap: duplicate leaf %q under %q", e.Node.name, e.Path)
		}
	}
	return nil
}
