package usecase

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bundcrawler/external/basketballbund"
	"github.com/riskibarqy/bundcrawler/internal/config"
)

var (
	ErrNotFound              = crerr.New("resource not found")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")

	// Fetch failures. Both are absorbed by LeagueFetcher and BoxScoreCollector.
	ErrUpstreamUnavailable = basketballbund.ErrUpstreamUnavailable
	ErrUpstreamApplication = basketballbund.ErrUpstreamApplication

	// ErrPersistence marks a run whose writes failed after every retry.
	ErrPersistence   = crerr.New("persistence failed")
	ErrConfiguration = config.ErrConfiguration
)
