// Package main provides the entry point for the hashcc digest CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jamesainslie/hashcc/pkg/hashcc/logging"
)

func main() {
	err := Execute()
	_ = logging.Close()

	if err == nil {
		return
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", ee.msg)
		}
		os.Exit(ee.code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
