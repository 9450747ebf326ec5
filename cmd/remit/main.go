package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/remit/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	app := &cli.App{
		Name:  "remit",
		Usage: "Algorand remittance service: account summaries, exports, transfers and simulations",
		Commands: []*cli.Command{
			serveCommand(cfg),
			accountCommand(cfg),
			exportCommand(cfg),
			sendCommand(cfg),
			mintTokenCommand(cfg),
			mintNFTCommand(cfg),
			simulateCommand(cfg),
			compareCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}
