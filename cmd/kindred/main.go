package main

import (
	"context"
	"os"

	"github.com/YoshitsuguKoike/kindred/internal/interface/cli"
)

func main() {
	if err := cli.NewRoot().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
