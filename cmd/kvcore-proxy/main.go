package main

import (
	"os"

	"github.com/realforge/kvcore-go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
