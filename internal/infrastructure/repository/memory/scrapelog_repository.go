package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/bundcrawler/internal/domain/scrapelog"
)

type ScrapeLogRepository struct {
	mu      sync.RWMutex
	entries []scrapelog.Entry
}

func NewScrapeLogRepository(seed ...scrapelog.Entry) *ScrapeLogRepository {
	return &ScrapeLogRepository{entries: append([]scrapelog.Entry(nil), seed...)}
}

func (r *ScrapeLogRepository) Insert(_ context.Context, entry scrapelog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	return nil
}

// ListSince returns entries of leagueID scraped at or after since, newest first.
func (r *ScrapeLogRepository) ListSince(_ context.Context, leagueID int, since time.Time) ([]scrapelog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scrapelog.Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if entry.LeagueID == leagueID && !entry.ScrapedAt.Before(since) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *ScrapeLogRepository) All() []scrapelog.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]scrapelog.Entry(nil), r.entries...)
}
