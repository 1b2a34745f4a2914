package basketballbund

import crerr "github.com/cockroachdb/errors"

var (
	// ErrUpstreamUnavailable covers network failures, timeouts and non-2xx
	// responses.
	ErrUpstreamUnavailable = crerr.New("upstream unavailable")
	// ErrUpstreamApplication is a parsed response whose status is not "0".
	ErrUpstreamApplication = crerr.New("upstream application error")

	errBundTransient = crerr.New("basketball-bund transient failure")
)

func isBundCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errBundTransient)
}
