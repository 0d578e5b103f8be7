// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"sync"

	"github.com/sysreg/sysctl/errno"
)

// ctxEntry is a cheap wrapper owned by a DynContext, referencing one
// registered node.
type ctxEntry struct {
	node *Node
}

// DynContext is a group-scoped bag of registrations with all-or-nothing
// rollback on teardown failure. Entries are kept newest-first,
// matching sysctl_ctx_entry_add's TAILQ_INSERT_HEAD ordering, so Free() tears
// down the most recently added registration first.
type DynContext struct {
	mu      sync.Mutex
	entries []*ctxEntry
}

// NewDynContext returns an initialized, empty context (sysctl_ctx_init).
func NewDynContext() *DynContext {
	return &DynContext{}
}

// add appends an entry referencing node, newest-first.
func (c *DynContext) add(node *Node) *ctxEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &ctxEntry{node: node}
	c.entries = append([]*ctxEntry{e}, c.entries...)
	return e
}

// find returns the entry referencing node, or nil.
func (c *DynContext) find(node *Node) *ctxEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.node == node {
			return e
		}
	}
	return nil
}

// del removes the entry referencing node from the context. It does not
// touch the tree; callers must RemoveOID separately if they intend to
// deregister the node rather than merely stop tracking it.
func (c *DynContext) del(node *Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.node == node {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return nil
		}
	}
	return errno.NotFound
}

// Entries returns a snapshot of the nodes currently tracked by c,
// newest-first.
func (c *DynContext) Entries() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Node, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.node
	}
	return out
}

// Free runs the two-phase teardown that makes group deregistration
// atomic from the outside: either every node added through c is gone, or
// none of them are.
//
// Phase 1 (dry run) deregisters each entry, newest-first, without
// freeing it (RemoveOID(node, free=false, recurse=false)). If every
// entry can be deregistered, all of them are immediately re-registered
// (oldest-first) — the dry run never leaves the tree altered — and Free
// moves on to phase 2. If deregistering some entry fails partway
// through, every entry that was actually deregistered so far is
// re-registered (most-recently-deregistered first) and Free returns
// errno.Busy with the tree exactly as it was before the call.
//
// Phase 2 (commit) repeats the newest-first deregistration, this time
// with free=true. A failure here means the tree was corrupted between
// phase 1 and phase 2 by some caller that bypassed this context, which
// this engine cannot recover from; it panics, matching the BSD
// kernel's "corrupt tree" assertion.
func (c *DynContext) Free(t *Tree) error {
	c.mu.Lock()
	entries := make([]*ctxEntry, len(c.entries))
	copy(entries, c.entries)
	c.mu.Unlock()

	removed := 0
	var failErr error
	for _, e := range entries {
		if err := t.RemoveOID(e.node, false, false); err != nil {
			failErr = err
			break
		}
		removed++
	}

	if failErr != nil {
		// Undo: re-register everything this dry run actually removed,
		// most-recently-removed first (walking back toward the head of
		// the entries list).
		for i := removed - 1; i >= 0; i-- {
			if _, err := t.Register(entries[i].node); err != nil {
				panic("sysctl: corrupt tree during ctxFree rollback: " + entries[i].node.name)
			}
		}
		return errno.Busy
	}

	// The dry run succeeded: put everything back (oldest-first) before
	// the real, freeing pass.
	for i := len(entries) - 1; i >= 0; i-- {
		if _, err := t.Register(entries[i].node); err != nil {
			panic("sysctl: corrupt tree after ctxFree dry run: " + entries[i].node.name)
		}
	}

	// Phase 2: commit, newest-first, freeing this time.
	for _, e := range entries {
		if err := t.RemoveOID(e.node, true, false); err != nil {
			panic("sysctl: corrupt tree during ctxFree commit: " + e.node.name)
		}
	}

	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()
	return nil
}
