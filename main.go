package main

import (
	"os"

	"github.com/emi-kkobayashi/gstd-1.x/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
