// Copyright 2019 the Go-FUSE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// A small standalone program exercising the registry engine directly:
// it bootstraps a tiny tree and reads a couple of values back by name.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/sysreg/sysctl/errno"
	"github.com/sysreg/sysctl/sysctl"
)

func main() {
	debug := flag.Bool("debug", false, "log every registration")
	flag.Parse()

	t := sysctl.NewTree(&sysctl.Options{Debug: *debug})
	if err := t.InstallIntrospection(); err != nil {
		log.Fatalf("install introspection: %v", err)
	}

	kernVersion := int32(42)
	hostname := make([]byte, 64)
	copy(hostname, "example-host")

	err := t.Bootstrap([]sysctl.StaticEntry{
		{Path: "", Node: sysctl.NewInterior("kern", sysctl.AutoID, 0, nil, "", "kernel subsystem")},
		{Path: "kern", Node: sysctl.NewLeaf("version", sysctl.AutoID,
			sysctl.MakeKind(sysctl.TypeInt, sysctl.FlagReadable, sysctl.FlagAnyUser),
			&kernVersion, 0, sysctl.HandleInt, sysctl.DefaultFormat(sysctl.TypeInt), "kernel version")},
		{Path: "kern", Node: sysctl.NewLeaf("hostname", sysctl.AutoID,
			sysctl.MakeKind(sysctl.TypeString, sysctl.FlagReadable, sysctl.FlagWritable, sysctl.FlagAnyUser),
			hostname, int64(len(hostname)), sysctl.HandleString, sysctl.DefaultFormat(sysctl.TypeString), "host name")},
	})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	ctx := context.Background()

	buf := make([]byte, 4)
	_, size, _, callErr := sysctl.KernelCallByName(ctx, t, "kern.version", buf, nil)
	if callErr != errno.OK {
		log.Fatalf("read kern.version: %v", callErr)
	}
	fmt.Printf("kern.version read %d bytes\n", size)

	nameBuf := make([]byte, 64)
	_, size, _, callErr = sysctl.KernelCallByName(ctx, t, "kern.hostname", nameBuf, nil)
	if callErr != errno.OK {
		log.Fatalf("read kern.hostname: %v", callErr)
	}
	fmt.Printf("kern.hostname: %s\n", nameBuf[:size])
}
