package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/apsbeam/beamglue/internal/app"
	"github.com/apsbeam/beamglue/internal/cli"
	"github.com/apsbeam/beamglue/internal/hcl"
)

// main is the entrypoint for the beamglue session startup.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors (unreadable iconfig, mostly);
	// recover here so the operator gets a clean exit message.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loader := hcl.NewLoader()
	session := app.NewApp(outW, appConfig, loader)

	_, err = session.Run(context.Background(), appConfig)
	return err
}
