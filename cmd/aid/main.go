package main

import (
	"os"

	"github.com/mjp2ff/aid-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
