package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// main runs the trackdig root command. Interrupted research runs exit
// silently; every other failure prints the classified reason to stderr.
func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
