// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysctl

// Options configures a Tree at construction: a small, explicit struct
// of knobs with documented defaults rather than a pile of constructor
// arguments.
type Options struct {
	// MaxPathDepth overrides resolve.go's MaxPathDepth bound. Zero means
	// use the package default.
	MaxPathDepth int

	// FirstAutoID overrides the first id nextAutoID assigns when no
	// sibling already exceeds it (BSD's OID_AUTO
	// convention reserves ids 0..99 for static entries, so the first
	// dynamically assigned id is 100). Zero means use the package
	// default of 100.
	FirstAutoID int32

	// Debug, when set, makes Bootstrap and Register log every
	// registration as they happen.
	Debug bool
}

// DefaultOptions returns the zero-value-safe baseline: package defaults
// for every knob, debug logging off.
func DefaultOptions() *Options {
	return &Options{}
}

func (o *Options) maxPathDepth() int {
	if o == nil || o.MaxPathDepth == 0 {
		return MaxPathDepth
	}
	return o.MaxPathDepth
}

func (o *Options) firstAutoID() int32 {
	if o == nil || o.FirstAutoID == 0 {
		return 100
	}
	return o.FirstAutoID
}
