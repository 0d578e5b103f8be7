// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import "github.com/sysreg/sysctl/errno"

// AutoID requests an engine-assigned numeric id from register(); see
// Tree.Register. It reserves ids 0..99 for well-known, statically
// assigned entries (Tree.Bootstrap), matching BSD's
// OID_AUTO convention.
const AutoID int32 = -1

// HandlerFunc adapts a Node's semantics to a Request. For a leaf it
// receives the node's own value binding as (arg1, arg2); for an interior
// node that carries a handler, it instead receives the unresolved path
// suffix as arg1 (an []int32) and its length as arg2.
//
// Handler is a plain function value, not a method on an interface: the
// Kind descriptor already distinguishes node shape by tag, so Go gains
// nothing from a parallel interface hierarchy here.
type HandlerFunc func(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno

// Node is one vertex of the registry tree: an interior node with
// children, or a leaf with a (arg1, arg2) value binding. Both shapes are
// represented by the same struct with a Kind discriminant.
type Node struct {
	// parent is a back-reference to the containing node, not an
	// ownership edge: the tree is a pure DAG rooted at the registry's
	// synthetic root, there are no sibling links and no node owns its
	// parent.
	parent *Node

	id   int32
	name string
	kind Kind

	// children holds this node's child list, sorted ascending by id.
	// Populated only when kind.Type() == TypeNode.
	children []*Node

	// arg1/arg2 carry the leaf's value binding. arg1 is the opaque
	// pointer-equivalent to the backing datum (a *int32, *int64, []byte,
	// etc., depending on TypeTag); arg2 is an auxiliary integer, typically
	// a size or a read-only constant.
	arg1 interface{}
	arg2 int64

	handler     HandlerFunc
	format      string
	description string

	// refCount is always 1 for leaves. For an interior node registered
	// under the same name from more than one source, it counts how many
	// registrations (and hence how many dynamic-context entries) keep it
	// alive.
	refCount int32
}

// NewLeaf builds an unregistered leaf Node. Pass it to Tree.Register or
// Tree.Add to attach it to the tree.
func NewLeaf(name string, id int32, kind Kind, arg1 interface{}, arg2 int64, handler HandlerFunc, format, description string) *Node {
	return &Node{
		name:        name,
		id:          id,
		kind:        kind,
		arg1:        arg1,
		arg2:        arg2,
		handler:     handler,
		format:      format,
		description: description,
		refCount:    1,
	}
}

// NewInterior builds an unregistered interior Node. handler may be nil
// for a plain container node, or non-nil to make the node act as an
// opaque subtree (the resolver stops at it and hands the remaining path
// to handler as an argument).
func NewInterior(name string, id int32, kind Kind, handler HandlerFunc, format, description string) *Node {
	kind = MakeKind(TypeNode, 0) | (kind &^ typeMask)
	return &Node{
		name:        name,
		id:          id,
		kind:        kind,
		handler:     handler,
		format:      format,
		description: description,
		refCount:    1,
	}
}

// ID returns the node's numeric id, unique among its siblings.
func (n *Node) ID() int32 { return n.id }

// Name returns the node's textual label, unique among its siblings. A
// dot never appears in a valid Name; it is reserved as the dotted-path
// separator.
func (n *Node) Name() string { return n.name }

// Kind returns the node's bit-packed type+flags descriptor.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the node's containing node, or nil for the tree root.
func (n *Node) Parent() *Node { return n.parent }

// IsInterior reports whether n is a TypeNode vertex (may have children).
func (n *Node) IsInterior() bool { return n.kind.Type() == TypeNode }

// HasHandler reports whether n carries a Handler. An interior node with
// a handler acts as an opaque subtree endpoint during resolution.
func (n *Node) HasHandler() bool { return n.handler != nil }

// RefCount returns the node's reference count. It is always 1 for
// leaves; only interior nodes registered from multiple sources exceed 1.
func (n *Node) RefCount() int32 { return n.refCount }

// Arg1 returns the leaf's opaque backing pointer equivalent.
func (n *Node) Arg1() interface{} { return n.arg1 }

// Arg2 returns the leaf's auxiliary integer (size, or read-only constant).
func (n *Node) Arg2() int64 { return n.arg2 }

// Format returns the node's format-string descriptor, consumed by
// external decoders via the oidfmt introspection handler.
func (n *Node) Format() string { return n.format }

// Description returns the node's free-text description.
func (n *Node) Description() string { return n.description }

// Children returns a snapshot slice of n's children, sorted ascending by
// id. The slice is always a fresh copy, never the live child list, so
// callers may modify it freely; it is taken without acquiring the Tree's
// structural lock.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// childByID returns the child with the given id, or nil. children is
// kept sorted, but sibling lists here are small (tens of entries at
// most), so a linear scan over the sorted slice is simplest.
func (n *Node) childByID(id int32) *Node {
	for _, c := range n.children {
		if c.id == id {
			return c
		}
	}
	return nil
}

// childByName returns the child with the given name, or nil.
func (n *Node) childByName(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// insertSorted inserts ch into n.children preserving ascending-id
// order. The caller must hold the owning Tree's structural lock.
func (n *Node) insertSorted(ch *Node) {
	i := 0
	for i < len(n.children) && n.children[i].id < ch.id {
		i++
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = ch
}

// removeChild unlinks the child with the given id, if present. The
// caller must hold the owning Tree's structural lock.
func (n *Node) removeChild(id int32) {
	for i, c := range n.children {
		if c.id == id {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// nextAutoID computes max(firstAutoID-1, greatest sibling id) + 1 among
// n's children, reserving ids below firstAutoID for well-known static
// entries.
func (n *Node) nextAutoID(firstAutoID int32) int32 {
	max := firstAutoID - 1
	for _, c := range n.children {
		if c.id > max {
			max = c.id
		}
	}
	return max + 1
}
