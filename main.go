package main

import (
	"fmt"
	"os"

	"github.com/kilianp07/trainyard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "trainyard:", err)
		os.Exit(1)
	}
}
