package main

import (
	"context"
	"testing"
)

func TestExecute_MissingConfigurationExitsWithConfigError(t *testing.T) {
	t.Setenv("STORE_URL", "")
	t.Setenv("STORE_KEY", "")
	t.Setenv("LEAGUE_ID", "")

	for _, args := range [][]string{{"run"}, {"run", "--dry-run"}, {"healthcheck"}} {
		if code := execute(context.Background(), args); code != exitConfigError {
			t.Fatalf("execute(%v)=%d want %d", args, code, exitConfigError)
		}
	}
}

func TestExecute_UnknownCommandFails(t *testing.T) {
	if code := execute(context.Background(), []string{"crawl-everything"}); code != exitFailure {
		t.Fatalf("expected failure exit code, got %d", code)
	}
}

func TestExecute_HealthcheckWithoutScrapesFails(t *testing.T) {
	t.Setenv("STORE_URL", "postgres://crawler@127.0.0.1:1/bund")
	t.Setenv("STORE_KEY", "k")
	t.Setenv("LEAGUE_ID", "47950")
	t.Setenv("BUND_API_BASE_URL", "http://127.0.0.1:1/rest")
	t.Setenv("PERSIST_MAX_ATTEMPTS", "1")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")

	// The store is unreachable, so the probe fails and the check reports it.
	if code := execute(context.Background(), []string{"healthcheck"}); code != exitFailure {
		t.Fatalf("expected failure exit code, got %d", code)
	}
}
