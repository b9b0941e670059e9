package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Run is the process entry point: load config, build the App and serve
// until SIGINT or SIGTERM.
func Run() error {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	log := NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, cfg, log)
	if err != nil {
		log.Error("app.start.fail", "error", err)
		return err
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		log.Error("app.serve.fail", "error", err)
		return err
	}
	return nil
}
