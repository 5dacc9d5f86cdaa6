package main

import (
	"fmt"
	"os"

	"bizbook/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bizbook:", err)
		os.Exit(1)
	}
}
