package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/bundcrawler/internal/domain/scrapelog"
	"github.com/riskibarqy/bundcrawler/internal/infrastructure/repository/memory"
	scrapelogmock "github.com/riskibarqy/bundcrawler/internal/mocks/domain/scrapelog"
)

func TestHealthService_RecentScrapeIsHealthy(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 8, 12, 0, 0, 0, time.UTC)
	logs := memory.NewScrapeLogRepository(
		scrapelog.Entry{LeagueID: 47950, ScrapedAt: now.Add(-96 * time.Hour), Status: scrapelog.StatusSuccess},
		scrapelog.Entry{LeagueID: 47950, ScrapedAt: now.Add(-2 * time.Hour), Status: scrapelog.StatusSuccess, GamesCount: 12},
		scrapelog.Entry{LeagueID: 11111, ScrapedAt: now.Add(-time.Hour), Status: scrapelog.StatusSuccess},
	)
	sink := &recordingSink{}
	service := NewHealthService(nil, logs, 47950, 0, sink)
	service.now = func() time.Time { return now }

	entries, err := service.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 12, entries[0].GamesCount)
	assert.Equal(t, []string{"recent scrape"}, sink.infos)
}

func TestHealthService_NoRecentScrapeIsNotFound(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 8, 12, 0, 0, 0, time.UTC)
	logs := scrapelogmock.NewRepository(t)
	logs.On("ListSince", mock.Anything, 47950, now.Add(-24*time.Hour)).Return(nil, nil).Once()

	service := NewHealthService(probeFunc(func(context.Context) error { return nil }), logs, 47950, 24*time.Hour, &recordingSink{})
	service.now = func() time.Time { return now }

	_, err := service.Check(context.Background())
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrNotFound))
}

func TestHealthService_StoreUnreachable(t *testing.T) {
	t.Parallel()

	logs := scrapelogmock.NewRepository(t)
	service := NewHealthService(probeFunc(func(context.Context) error { return errors.New("dial tcp: refused") }), logs, 47950, time.Hour, &recordingSink{})

	_, err := service.Check(context.Background())
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrDependencyUnavailable))
	logs.AssertNotCalled(t, "ListSince", mock.Anything, mock.Anything, mock.Anything)
}
