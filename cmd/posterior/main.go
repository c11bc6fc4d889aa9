// Command posterior evaluates a thesis against competing hypotheses
package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/posterior/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
