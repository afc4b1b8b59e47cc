package main

import (
	"os"

	"github.com/gregLibert/globalplatform/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
