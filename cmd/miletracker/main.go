package main

import (
	"context"
	"os"

	"github.com/Temutjin2k/miletracker/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
