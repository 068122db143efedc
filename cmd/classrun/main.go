package main

import (
	"os"

	"github.com/pdinges/classlang/cmd/classrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
