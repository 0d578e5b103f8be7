// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysctl implements a hierarchical, typed, introspectable
// key/value registry. A Tree holds a DAG of Nodes addressed by a
// numeric path from its root; each Node is either an interior node
// (with children, and optionally its own handler acting as an opaque
// subtree endpoint) or a leaf carrying a typed value binding.
//
// External callers reach a Node through UserCall or KernelCall, which
// build a Request — a per-call I/O cursor over an old-output and a
// new-input buffer — and hand it to Tree.Call. Call acquires the
// Tree's Envelope, a single-writer gate serializing every in-flight
// request, then resolves the path and invokes the target's handler.
//
// Static entries are registered once at process startup via
// Tree.Bootstrap. Nodes added later by some dynamic subsystem are
// tracked in a DynContext so that, when that subsystem shuts down, its
// whole group of registrations can be torn down atomically: either all
// of it goes, or none of it does.
//
// A reserved "sysctl" subtree (InstallIntrospection) exposes the tree's
// own shape: numeric-to-name and name-to-numeric resolution, a
// depth-first "next" walk for full enumeration, and a format
// descriptor for each node, mirroring the introspection nodes the
// BSD kernel reserves under its own
// CTL_SYSCTL.
package sysctl
