// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This repository contains a hierarchical, typed, introspectable
// key/value registry: a process registers nodes under numeric and
// textual paths, and external callers read or write them through a
// single locked dispatcher, the way BSD's sysctl(8)/sysctl(3) expose
// kernel tunables and statistics.
//
// See github.com/sysreg/sysctl for the package implementing the
// registry tree, request dispatch, and introspection handlers.
package lib
