// magazyn cliente de terminal del almacén.
//
// Uso: magazyn login <email> <password> | whoami | items [--search s] [--category c] | add ... | report | logout
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/magazyn/magazyn/internal/client/commands"
	"github.com/magazyn/magazyn/pkg/config"
	"github.com/magazyn/magazyn/pkg/logger"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "magazyn: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: "development", Level: cfg.LogLevel, Output: os.Stderr})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := commands.NewApp(commands.Deps{Config: cfg, Log: log}, os.Stdout)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "magazyn: %v\n", err)
		cancel()
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			os.Exit(ec.ExitCode())
		}
		os.Exit(1)
	}
}
