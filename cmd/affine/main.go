// Package main provides the affine CLI: build a linear layer in a variable
// store, compare its dense and accelerated forward paths, and dump the store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/born-ml/affine/internal/logger"
)

func main() {
	app := &cli.Command{
		Name:  "affine",
		Usage: "Affine layer and parameter store toolkit",
		Flags: loggingFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log := logger.ForFormat(os.Stderr, logFormat, logger.ParseLevel(logLevel))
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			forwardCmd(),
			inspectCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
