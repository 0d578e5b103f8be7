// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errno

import (
	"errors"
	"testing"
)

func TestOKIsZero(t *testing.T) {
	if OK != 0 {
		t.Fatalf("OK = %d, want 0", OK)
	}
	if OK.Error() != "success" {
		t.Fatalf("OK.Error() = %q, want \"success\"", OK.Error())
	}
}

func TestIsMatchesSameValue(t *testing.T) {
	if !NotFound.Is(NotFound) {
		t.Fatalf("NotFound.Is(NotFound) = false")
	}
	if NotFound.Is(Perm) {
		t.Fatalf("NotFound.Is(Perm) = true")
	}
	if NotFound.Is(errors.New("not found")) {
		t.Fatalf("NotFound.Is(a plain error with the same text) = true")
	}
}

func TestErrorsIsInterop(t *testing.T) {
	var err error = NotFound
	if !errors.Is(err, NotFound) {
		t.Fatalf("errors.Is(err, NotFound) = false")
	}
}

func TestKnownCodesHaveNames(t *testing.T) {
	for _, e := range []Errno{NotFound, NotDir, IsDir, Perm, Invalid, NameTooLong, NoMemory, Busy, NotEmpty, Retry, Interrupted} {
		if e.Error() == "" {
			t.Fatalf("%d has no error text", e)
		}
	}
}
