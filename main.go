// Completion: 100% - CLI entry point complete
package main

import (
	"fmt"
	"os"
)

// A tiny JIT backend: stack IL in, x86-64 machine code out, executed in-process

const versionString = "yellowcake 0.1.0"

func main() {
	cfg := configFromEnv()
	if err := newRootCommand(&cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
