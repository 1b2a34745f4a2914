package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bundcrawler/internal/config"
	"github.com/riskibarqy/bundcrawler/internal/domain/scrapelog"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
	"github.com/riskibarqy/bundcrawler/internal/usecase"
)

func dryRunConfig(apiURL string) config.Config {
	return config.Config{
		AppEnv:                    config.EnvDev,
		ServiceName:               "bundcrawler",
		ServiceVersion:            "test",
		StoreURL:                  "postgres://crawler@localhost/bund",
		StoreKey:                  "unused",
		LeagueID:                  47950,
		BundAPIBaseURL:            apiURL + "/rest",
		BundBoxScoreURL:           apiURL + "/public/ergebnisDetails.jsp",
		BundUserAgent:             "BasketballBund-Crawler/1.0",
		BundTimeout:               2 * time.Second,
		BundCircuitFailureCount:   5,
		BundCircuitOpenTimeout:    time.Minute,
		BundCircuitHalfOpenMaxReq: 1,
		BoxScoreWorkers:           1,
		PersistMaxAttempts:        1,
		HealthcheckWindow:         72 * time.Hour,
	}
}

func TestNew_DryRunHealthWithoutScrapes(t *testing.T) {
	crawler, err := New(context.Background(), dryRunConfig("http://127.0.0.1:1"), logging.NewNop(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("new crawler: %v", err)
	}
	defer crawler.Close()

	_, err = crawler.Health.Check(context.Background())
	if !crerr.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNew_DryRunIngestThenHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/competition/list":
			_, _ = w.Write([]byte(`{"status":"0","data":[]}`))
		case "/rest/competition/table/id/47950":
			_, _ = w.Write([]byte(`{"status":"0","data":{"tabelle":{"entries":[]}}}`))
		case "/rest/competition/spielplan/id/47950":
			_, _ = w.Write([]byte(`{"status":"0","data":{"matches":[
				{"matchId":1,"homeTeam":{"teamPermanentId":1,"teamname":"A"},"guestTeam":{"teamPermanentId":2,"teamname":"B"},"result":null}
			]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	crawler, err := New(context.Background(), dryRunConfig(server.URL), logging.NewNop(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("new crawler: %v", err)
	}
	defer crawler.Close()

	result, err := crawler.Ingest.Run(context.Background())
	if err != nil {
		t.Fatalf("run ingest: %v", err)
	}
	if result.Log.Status != scrapelog.StatusSuccess || result.Log.GamesCount != 1 || result.Log.TeamsCount != 2 {
		t.Fatalf("unexpected scrape log: %+v", result.Log)
	}

	entries, err := crawler.Health.Check(context.Background())
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one recent scrape, got %d", len(entries))
	}
}
