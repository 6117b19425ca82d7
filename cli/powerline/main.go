// Package main is the powerline command itself.
package main

import (
	"os"

	"github.com/cvlab/powerline-pose/cli"
	"github.com/cvlab/powerline-pose/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}
