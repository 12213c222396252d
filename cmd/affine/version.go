package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/born-ml/affine/backend/cpu"
)

var (
	// Version is the release version (set via -ldflags).
	Version = "v0.0.1-dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version and detected CPU features",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("version:     %s\n", Version)
			if Commit != "" {
				fmt.Printf("commit:      %s\n", Commit)
			}
			fmt.Printf("platform:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Printf("cpu:         %v\n", cpu.Features())
			fmt.Printf("block width: %d\n", cpu.DetectBlockWidth())
			return nil
		},
	}
}
