package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/orgball2608/tg-channel-recon/internal/app"
	"github.com/orgball2608/tg-channel-recon/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	// The token is usually configured via the environment; fall back to an
	// interactive prompt so the tool works from a bare shell.
	if os.Getenv("TELEGRAM_TOKEN") == "" {
		fmt.Print("[+] Enter bot token > ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "No token provided")
			os.Exit(1)
		}
		os.Setenv("TELEGRAM_TOKEN", strings.TrimSpace(line))
	}

	log := logger.New(logger.Opts{})

	application := fx.New(
		fx.Logger(log),
		app.Module,
	)

	if err := application.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Wait for the menu to exit or an interrupt signal.
	<-application.Done()

	if err := application.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
}
