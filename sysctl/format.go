// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

// DefaultFormat returns the conventional one-letter format string for a
// TypeTag, for callers building a node without a format of their own;
// registration never fills in an empty format by itself. It mirrors
// BSD's unstated-but-real convention of "I" for
// CTLTYPE_INT, "L" for CTLTYPE_QUAD, "A" for CTLTYPE_STRING, and "" for
// opaque/struct values whose shape only the consumer understands.
func DefaultFormat(t TypeTag) string {
	switch t {
	case TypeInt:
		return "I"
	case TypeQuad:
		return "L"
	case TypeString:
		return "A"
	default:
		return ""
	}
}
