// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/sysreg/sysctl/errno"
)

// MaxNameLen bounds the textual dotted path name2oid accepts, the way
// the BSD kernel bounds it against MAXPATHLEN.
const MaxNameLen = 1024

// InstallIntrospection registers the reserved introspection subtree
// under root id 0: five fixed children — debug, name, next,
// name2oid, oidfmt — each an interior node carrying a handler, so the
// resolver treats it as an opaque subtree endpoint and hands it the
// remaining numeric path as an argument.
func (t *Tree) InstallIntrospection() error {
	top := NewInterior("sysctl", 0, 0, nil, "", "introspection subtree")
	if _, err := t.Register(top); err != nil {
		return err
	}

	children := []*Node{
		NewInterior("debug", 0, MakeKind(TypeNode, FlagReadable), t.debugHandler(), "", "dump the entire tree"),
		NewInterior("name", 1, MakeKind(TypeNode, FlagReadable, FlagAnyUser), t.nameHandler(), "", "oid to dotted name"),
		NewInterior("next", 2, MakeKind(TypeNode, FlagReadable, FlagAnyUser), t.nextHandler(), "", "next oid in DFS order"),
		NewInterior("name2oid", 3, MakeKind(TypeNode, FlagReadable, FlagWritable, FlagAnyUser), t.name2oidHandler(), "I", "dotted name to oid"),
		NewInterior("oidfmt", 4, MakeKind(TypeNode, FlagReadable, FlagAnyUser), t.oidfmtHandler(), "", "kind + format string"),
	}
	for _, c := range children {
		c.parent = top
		if _, err := t.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// debugHandler dumps the entire tree as indented text. It requires a
// privileged caller and always returns errno.NotFound as a sentinel
// after dumping — the dump is a side channel, not a normal readable
// value, matching BSD's "always ENOENT" convention for this
// handler.
func (t *Tree) debugHandler() HandlerFunc {
	return func(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
		if !req.Caller.Privileged {
			return errno.Perm
		}
		t.structMu.Lock()
		t.dump(t.root, 0, req)
		t.structMu.Unlock()
		return errno.NotFound
	}
}

func (t *Tree) dump(n *Node, depth int, req *Request) {
	for _, c := range n.children {
		line := fmt.Sprintf("%s%d %s %s\n", strings.Repeat("  ", depth), c.id, c.name, c.kind.Type())
		req.Out([]byte(line))
		if c.IsInterior() && !c.HasHandler() {
			t.dump(c, depth+1, req)
		}
	}
}

// nameHandler resolves a numeric path argument to its dotted textual
// name. Path elements that fall outside the tree degrade to their
// decimal representation rather than failing the whole call.
func (t *Tree) nameHandler() HandlerFunc {
	return func(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
		path, _ := arg1.([]int32)

		t.structMu.Lock()
		defer t.structMu.Unlock()

		list := t.root.children
		for _, id := range path {
			var found *Node
			for _, c := range list {
				if c.id == id {
					found = c
					break
				}
			}

			var label string
			if found != nil {
				label = found.name
			} else {
				label = strconv.Itoa(int(id))
			}

			if req.OldCursor() != 0 {
				if err := req.Out([]byte(".")); err != nil {
					return errno.Invalid
				}
			}
			if err := req.Out([]byte(label)); err != nil {
				return errno.Invalid
			}

			if found != nil && found.IsInterior() && !found.HasHandler() {
				list = found.children
			} else {
				list = nil
			}
		}
		if err := req.Out([]byte{0}); err != nil {
			return errno.Invalid
		}
		return errno.OK
	}
}

// nextHandler returns the next leaf/handler-terminated path in DFS
// numeric order after the given (possibly empty) path argument.
func (t *Tree) nextHandler() HandlerFunc {
	return func(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
		path, _ := arg1.([]int32)

		t.structMu.Lock()
		result, ok := nextDFS(t.root.children, path)
		t.structMu.Unlock()

		if !ok {
			return errno.NotFound
		}
		buf := make([]byte, 4*len(result))
		for i, id := range result {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
		}
		if err := req.Out(buf); err != nil {
			return errno.Invalid
		}
		return errno.OK
	}
}

// nextDFS is the DFS successor search behind nextHandler: children
// visited in numeric order, descending into interior nodes
// without handlers, yielding interior-with-handler nodes and leaves as
// themselves. name, when non-empty, names the path whose successor is
// sought; an empty name means "the very first entry".
func nextDFS(list []*Node, name []int32) ([]int32, bool) {
	for _, oidp := range list {
		switch {
		case len(name) == 0:
			if !oidp.IsInterior() || oidp.HasHandler() {
				return []int32{oidp.id}, true
			}
			if rest, ok := nextDFS(oidp.children, nil); ok {
				return append([]int32{oidp.id}, rest...), true
			}
			// This branch is empty (e.g. a container the bootstrap
			// registered but never populated): keep scanning siblings.
			continue

		case oidp.id < name[0]:
			continue

		case oidp.id > name[0]:
			if !oidp.IsInterior() || oidp.HasHandler() {
				return []int32{oidp.id}, true
			}
			if rest, ok := nextDFS(oidp.children, nil); ok {
				return append([]int32{oidp.id}, rest...), true
			}
			continue

		default: // oidp.id == name[0]: descend along the given path
			if !oidp.IsInterior() || oidp.HasHandler() {
				continue
			}
			if rest, ok := nextDFS(oidp.children, name[1:]); ok {
				return append([]int32{oidp.id}, rest...), true
			}
			continue
		}
	}
	return nil, false
}

// name2oidHandler resolves a dotted textual path (consumed from the
// new-input buffer) to its numeric path. A trailing "." is
// tolerated; an empty name fails with errno.NotFound; a name at or
// beyond MaxNameLen fails with errno.NameTooLong.
func (t *Tree) name2oidHandler() HandlerFunc {
	return func(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
		remaining := req.NewRemaining()
		if remaining == 0 {
			return errno.NotFound
		}
		if remaining >= MaxNameLen {
			return errno.NameTooLong
		}
		buf := make([]byte, remaining)
		if err := req.In(buf); err != errno.OK {
			return err
		}

		path, resolveErr := t.nameToOID(string(buf))
		if resolveErr != errno.OK {
			return resolveErr
		}

		out := make([]byte, 4*len(path))
		for i, id := range path {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(id))
		}
		if err := req.Out(out); err != nil {
			return errno.Invalid
		}
		return errno.OK
	}
}

func (t *Tree) nameToOID(name string) ([]int32, errno.Errno) {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return nil, errno.NotFound
	}
	parts := strings.Split(name, ".")

	t.structMu.Lock()
	defer t.structMu.Unlock()

	list := t.root.children
	var path []int32
	for i, part := range parts {
		found := (*Node)(nil)
		for _, c := range list {
			if c.name == part {
				found = c
				break
			}
		}
		if found == nil {
			return nil, errno.NotFound
		}
		path = append(path, found.id)

		if i == len(parts)-1 {
			return path, errno.OK
		}
		if !found.IsInterior() || found.HasHandler() {
			return nil, errno.NotFound
		}
		list = found.children
	}
	return nil, errno.NotFound
}

// oidfmtHandler writes the resolved node's Kind followed by its format
// string (NUL-terminated) to the old-output buffer.
func (t *Tree) oidfmtHandler() HandlerFunc {
	return func(n *Node, arg1 interface{}, arg2 int64, req *Request) errno.Errno {
		path, _ := arg1.([]int32)
		node, _, _, err := t.FindOID(path)
		if err != errno.OK {
			return err
		}

		var kindBuf [4]byte
		binary.LittleEndian.PutUint32(kindBuf[:], uint32(node.Kind()))
		if err := req.Out(kindBuf[:]); err != nil {
			return errno.Invalid
		}
		if err := req.Out(append([]byte(node.Format()), 0)); err != nil {
			return errno.Invalid
		}
		return errno.OK
	}
}
