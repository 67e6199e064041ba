package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type entrypointTestConfig struct {
	Port int `env:"FOLIES_PLANNING_ENTRYPOINT_TEST_PORT" envDefault:"8080"`
}

func TestParseConfigFromArgs(t *testing.T) {
	t.Setenv("FOLIES_PLANNING_ENTRYPOINT_TEST_PORT", "9000")

	var cfg entrypointTestConfig
	fs := flag.NewFlagSet("planning", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "listen port")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-port", "9001"}); err != nil {
		t.Fatalf("parse config from args: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected flag override 9001, got %d", cfg.Port)
	}
}

func TestParseConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if err := ParseConfig[entrypointTestConfig](nil); err == nil {
		t.Fatal("expected error for nil config target")
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	t.Parallel()

	err := RunWithTelemetry(context.Background(), " ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	t.Setenv("FOLIES_PLANNING_OTEL_ENDPOINT", "")

	wantErr := errors.New("run failed")
	err := RunWithTelemetry(context.Background(), ServicePlanning, func(context.Context) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected run error, got %v", err)
	}
}
