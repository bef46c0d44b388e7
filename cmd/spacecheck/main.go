package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vbp1/spacecheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "spacecheck: %v\n", err)
		if errors.Is(err, cli.ErrAlmostFull) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
