// Package main runs one pass of the scheduling cron checks.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	croncmd "github.com/tbhone/folies-planning/internal/cmd/cron"
)

func main() {
	cfg, err := croncmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[CRON] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := croncmd.Run(ctx, cfg); err != nil {
		log.Fatalf("cron pass failed: %v", err)
	}
}
