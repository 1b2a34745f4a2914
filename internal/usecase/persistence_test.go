package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/bundcrawler/internal/domain/boxscore"
	"github.com/riskibarqy/bundcrawler/internal/domain/game"
	"github.com/riskibarqy/bundcrawler/internal/domain/scrapelog"
	"github.com/riskibarqy/bundcrawler/internal/domain/standing"
	"github.com/riskibarqy/bundcrawler/internal/domain/team"
	"github.com/riskibarqy/bundcrawler/internal/infrastructure/repository/memory"
	boxscoremock "github.com/riskibarqy/bundcrawler/internal/mocks/domain/boxscore"
	gamemock "github.com/riskibarqy/bundcrawler/internal/mocks/domain/game"
	scrapelogmock "github.com/riskibarqy/bundcrawler/internal/mocks/domain/scrapelog"
	standingmock "github.com/riskibarqy/bundcrawler/internal/mocks/domain/standing"
	teammock "github.com/riskibarqy/bundcrawler/internal/mocks/domain/team"
	"github.com/riskibarqy/bundcrawler/internal/platform/resilience"
)

var testRetryPolicy = resilience.RetryPolicy{MaxAttempts: 3, InitialDelay: 10 * time.Second, Multiplier: 2}

func sampleBatch() PersistBatch {
	at := time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)
	return PersistBatch{
		LeagueID:  47950,
		ScrapedAt: at,
		Teams: []team.Team{
			{ID: "101", Name: "TSV Neustadt", LeagueID: 47950},
			{ID: "202", Name: "BC Altstadt", LeagueID: 47950},
		},
		Games: []game.Game{{
			ID: "2470193", LeagueID: 47950, HomeTeamID: "101", AwayTeamID: "202",
			HomeScore: intPtr(85), AwayScore: intPtr(78), Status: game.StatusFinished,
		}},
		Standings: []standing.Standing{
			{LeagueID: 47950, TeamID: "101", Position: 1, ScrapedAt: at},
			{LeagueID: 47950, TeamID: "202", Position: 2, ScrapedAt: at},
		},
		BoxScores: []boxscore.Entry{
			{GameID: "2470193", TeamID: "101", PlayerLastName: "Doe", PlayerFirstName: "Jane", Points: 24, LeagueID: 47950, ScrapedAt: at},
			{GameID: "2470193", TeamID: "202", PlayerLastName: "Smith", PlayerFirstName: "Alex", Points: 30, LeagueID: 47950, ScrapedAt: at},
		},
		Quarters: map[string]game.QuarterScores{
			"2470193": {FirstQuarterHome: intPtr(22), FirstQuarterAway: intPtr(18)},
		},
	}
}

type mockRepos struct {
	teams     *teammock.Repository
	games     *gamemock.Repository
	standings *standingmock.Repository
	boxScores *boxscoremock.Repository
	scrapeLog *scrapelogmock.Repository
}

func newMockRepos(t *testing.T) mockRepos {
	return mockRepos{
		teams:     teammock.NewRepository(t),
		games:     gamemock.NewRepository(t),
		standings: standingmock.NewRepository(t),
		boxScores: boxscoremock.NewRepository(t),
		scrapeLog: scrapelogmock.NewRepository(t),
	}
}

func (m mockRepos) repositories(probe StoreProbe) PersistenceRepositories {
	return PersistenceRepositories{
		Probe:     probe,
		Teams:     m.teams,
		Games:     m.games,
		Standings: m.standings,
		BoxScores: m.boxScores,
		ScrapeLog: m.scrapeLog,
	}
}

// expectSuccessfulAttempt registers one full write sequence for batch.
func (m mockRepos) expectSuccessfulAttempt(batch PersistBatch) {
	m.teams.On("UpsertTeams", mock.Anything, batch.Teams).Return(nil).Once()
	m.games.On("UpsertGames", mock.Anything, batch.Games).Return(nil).Once()
	m.games.On("UpdateQuarterScores", mock.Anything, "2470193", batch.Quarters["2470193"]).Return(true, nil).Once()
	m.standings.On("ReplaceByLeague", mock.Anything, batch.LeagueID, batch.Standings).Return(nil).Once()
	m.boxScores.On("ListPreserved", mock.Anything, []string{"2470193"}).
		Return(map[boxscore.Key]boxscore.Preserved{}, nil).Once()
	m.boxScores.On("DeleteByGames", mock.Anything, []string{"2470193"}).Return(nil).Once()
	m.boxScores.On("UpsertEntries", mock.Anything, mock.MatchedBy(func(rows []boxscore.Entry) bool {
		return len(rows) == len(batch.BoxScores)
	})).Return(nil).Once()
	m.scrapeLog.On("Insert", mock.Anything, mock.MatchedBy(func(e scrapelog.Entry) bool {
		return e.Status == scrapelog.StatusSuccess
	})).Return(nil).Once()
}

func TestPersistenceCoordinator_RetriesWithBackoffThenSucceeds(t *testing.T) {
	t.Parallel()

	batch := sampleBatch()
	repos := newMockRepos(t)
	var pings atomic.Int32
	probe := probeFunc(func(context.Context) error {
		if pings.Add(1) <= 2 {
			return errors.New("connection refused")
		}
		return nil
	})
	repos.expectSuccessfulAttempt(batch)

	sleeps := &sleepRecorder{}
	sink := &recordingSink{}
	coordinator := newPersistenceCoordinator(repos.repositories(probe), testRetryPolicy, sleeps.sleep, sink)

	entry, err := coordinator.Persist(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{10 * time.Second, 20 * time.Second}, sleeps.recorded())
	assert.Equal(t, int32(3), pings.Load())
	assert.Equal(t, scrapelog.StatusSuccess, entry.Status)
	assert.Equal(t, 2, entry.TeamsCount)
	assert.Equal(t, 1, entry.GamesCount)
	assert.Equal(t, 2, entry.StandingsCount)
	assert.Equal(t, 2, entry.BoxScoresCount)
	assert.Nil(t, entry.ErrorMessage)
	assert.Len(t, sink.warnings(), 2)
}

func TestPersistenceCoordinator_ExhaustedRetriesWriteFailedLog(t *testing.T) {
	t.Parallel()

	batch := sampleBatch()
	repos := newMockRepos(t)
	storeDown := errors.New("store unreachable")
	probe := probeFunc(func(context.Context) error { return storeDown })

	var failed scrapelog.Entry
	repos.scrapeLog.On("Insert", mock.Anything, mock.MatchedBy(func(e scrapelog.Entry) bool {
		return e.Status == scrapelog.StatusFailed
	})).Run(func(args mock.Arguments) {
		failed = args.Get(1).(scrapelog.Entry)
	}).Return(errors.New("still down")).Once()

	sleeps := &sleepRecorder{}
	coordinator := newPersistenceCoordinator(repos.repositories(probe), testRetryPolicy, sleeps.sleep, &recordingSink{})
	failedAt := batch.ScrapedAt.Add(30 * time.Second)
	coordinator.now = func() time.Time { return failedAt }

	_, err := coordinator.Persist(context.Background(), batch)
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrPersistence))
	assert.True(t, crerr.Is(err, storeDown))
	assert.Equal(t, []time.Duration{10 * time.Second, 20 * time.Second}, sleeps.recorded())

	assert.Equal(t, batch.LeagueID, failed.LeagueID)
	// Stamped when the retries ran out, not when the run started.
	assert.Equal(t, failedAt.UTC(), failed.ScrapedAt)
	assert.Zero(t, failed.TeamsCount)
	assert.Zero(t, failed.BoxScoresCount)
	require.NotNil(t, failed.ErrorMessage)
	assert.Contains(t, *failed.ErrorMessage, "store unreachable")
}

func TestPersistenceCoordinator_PreserveReadFailureAbortsBeforeDelete(t *testing.T) {
	t.Parallel()

	batch := sampleBatch()
	batch.Quarters = nil
	repos := newMockRepos(t)
	probe := probeFunc(func(context.Context) error { return nil })

	repos.teams.On("UpsertTeams", mock.Anything, batch.Teams).Return(nil).Times(2)
	repos.games.On("UpsertGames", mock.Anything, batch.Games).Return(nil).Times(2)
	repos.standings.On("ReplaceByLeague", mock.Anything, batch.LeagueID, batch.Standings).Return(nil).Times(2)
	repos.boxScores.On("ListPreserved", mock.Anything, []string{"2470193"}).
		Return(nil, errors.New("read timeout")).Times(2)
	repos.scrapeLog.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	policy := resilience.RetryPolicy{MaxAttempts: 2, InitialDelay: time.Second, Multiplier: 2}
	coordinator := newPersistenceCoordinator(repos.repositories(probe), policy, (&sleepRecorder{}).sleep, &recordingSink{})

	_, err := coordinator.Persist(context.Background(), batch)
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrPersistence))
	assert.Contains(t, err.Error(), "read preserved box score fields")
	repos.boxScores.AssertNotCalled(t, "DeleteByGames", mock.Anything, mock.Anything)
}

func TestPersistenceCoordinator_DoublePersistIsIdempotent(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	coordinator := newPersistenceCoordinator(PersistenceRepositories{
		Probe:     store,
		Teams:     store.Teams,
		Games:     store.Games,
		Standings: store.Standings,
		BoxScores: store.BoxScores,
		ScrapeLog: store.ScrapeLog,
	}, testRetryPolicy, (&sleepRecorder{}).sleep, &recordingSink{})

	batch := sampleBatch()
	_, err := coordinator.Persist(context.Background(), batch)
	require.NoError(t, err)

	// Someone fills in minutes and a slug between runs.
	rows := store.BoxScores.ListByGame("2470193")
	require.Len(t, rows, 2)
	rows[0].MinutesPlayed = strPtr("31:12")
	rows[0].PlayerSlug = strPtr("jane-doe")
	require.NoError(t, store.BoxScores.UpsertEntries(context.Background(), rows[:1]))

	// The second run sees Jane twice and no longer sees Smith.
	second := sampleBatch()
	second.BoxScores = []boxscore.Entry{second.BoxScores[0], second.BoxScores[0]}
	second.BoxScores[1].Points = 26
	entry, err := coordinator.Persist(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.BoxScoresCount)

	got := store.BoxScores.ListByGame("2470193")
	require.Len(t, got, 1)
	assert.Equal(t, "Doe", got[0].PlayerLastName)
	assert.Equal(t, 26, got[0].Points)
	require.NotNil(t, got[0].MinutesPlayed)
	assert.Equal(t, "31:12", *got[0].MinutesPlayed)
	require.NotNil(t, got[0].PlayerSlug)
	assert.Equal(t, "jane-doe", *got[0].PlayerSlug)

	assert.Len(t, store.Teams.List(), 2)
	assert.Len(t, store.Games.List(), 1)
	assert.Len(t, store.Standings.ListByLeague(47950), 2)
	quarters, ok := store.Games.QuarterScores("2470193")
	require.True(t, ok)
	assert.Equal(t, 22, *quarters.FirstQuarterHome)
	assert.Len(t, store.ScrapeLog.All(), 2)
}

func TestPersistenceCoordinator_QuarterScoresForUnknownGameAreSkipped(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	sink := &recordingSink{}
	coordinator := newPersistenceCoordinator(PersistenceRepositories{
		Probe:     store,
		Teams:     store.Teams,
		Games:     store.Games,
		Standings: store.Standings,
		BoxScores: store.BoxScores,
		ScrapeLog: store.ScrapeLog,
	}, testRetryPolicy, (&sleepRecorder{}).sleep, sink)

	batch := sampleBatch()
	batch.Quarters["9999999"] = game.QuarterScores{HalftimeHome: intPtr(40)}

	_, err := coordinator.Persist(context.Background(), batch)
	require.NoError(t, err)
	_, ok := store.Games.QuarterScores("9999999")
	assert.False(t, ok)
	assert.Contains(t, sink.warnings(), "quarter scores not applied, game missing")
}
