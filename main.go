// Package main is the entry point for the nomgen parser generator.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/nomgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
