package main

import (
	"os"

	"github.com/logicossoftware/go-uasset/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
