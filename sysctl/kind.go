// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

// TypeTag identifies the shape of a Node's value binding. It occupies the
// low byte of a Kind, giving introspection clients (oidfmt) a stable wire
// layout to decode, the same way a fixed on-wire attribute struct keeps
// its field layout stable for whatever decodes it on the other end.
type TypeTag uint32

const (
	// TypeNode marks an interior node: it carries a Children list rather
	// than a (Arg1, Arg2) value binding. An interior node may still carry
	// a Handler, in which case the resolver stops at it.
	TypeNode TypeTag = iota
	// TypeInt is a 32-bit integer leaf.
	TypeInt
	// TypeString is a NUL-terminated byte-buffer leaf.
	TypeString
	// TypeQuad is a 64-bit integer leaf.
	TypeQuad
	// TypeOpaque is a fixed-size untyped byte-buffer leaf.
	TypeOpaque
)

func (t TypeTag) String() string {
	switch t {
	case TypeNode:
		return "node"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeQuad:
		return "quad"
	case TypeOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Flag is an access-control/behavior bit of a Node's Kind. Flags occupy
// the bits above the low byte reserved for TypeTag.
type Flag uint32

const (
	// FlagReadable permits the node to be read (old-output present).
	FlagReadable Flag = 1 << (8 + iota)
	// FlagWritable permits the node to be written (new-input present).
	FlagWritable
	// FlagAnyUser waives the privilege check for writes.
	FlagAnyUser
	// FlagSecure makes the node writable only below an elevated security
	// level.
	FlagSecure
	// FlagPrison allows jailed callers to access the node.
	FlagPrison
	// FlagNoLock opts a node out of the envelope's user-buffer pinning
	// for the call traversing it; it never releases the envelope itself.
	FlagNoLock
	// FlagDynamic marks a node eligible for deregistration via RemoveOID.
	FlagDynamic
)

const typeMask = Kind(0xFF)

// Kind is the bit-packed descriptor carried by every Node: a TypeTag in
// the low byte, access Flags above it. Its layout is part of the wire
// contract exposed by the oidfmt introspection handler, so it must
// never be renumbered once published.
type Kind uint32

// MakeKind packs a TypeTag and a set of Flags into a Kind.
func MakeKind(t TypeTag, flags ...Flag) Kind {
	k := Kind(t)
	for _, f := range flags {
		k |= Kind(f)
	}
	return k
}

// Type returns the TypeTag component of k.
func (k Kind) Type() TypeTag {
	return TypeTag(k & typeMask)
}

// Has reports whether k carries the given Flag.
func (k Kind) Has(f Flag) bool {
	return k&Kind(f) != 0
}

// WithFlag returns k with f set, used when a node's flags must be
// amended after construction (Tree.Add sets FlagDynamic on every node it
// links).
func (k Kind) WithFlag(f Flag) Kind {
	return k | Kind(f)
}
