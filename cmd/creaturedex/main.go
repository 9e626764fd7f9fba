package main

import (
	"fmt"
	"os"

	"creaturedex/internal/cli"
	"creaturedex/platform/config"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
