package main

import (
	"os"

	"github.com/denismitr/ladder/internal/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdout)

	if err := root.Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
