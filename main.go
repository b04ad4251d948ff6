package main

import (
	"os"

	"github.com/AnyUserName/photoedit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
