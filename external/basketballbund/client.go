package basketballbund

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
	"github.com/riskibarqy/bundcrawler/internal/platform/ratelimit"
	"github.com/riskibarqy/bundcrawler/internal/platform/resilience"
)

const (
	defaultAPIBaseURL  = "https://www.basketball-bund.net/rest"
	defaultBoxScoreURL = "https://www.basketball-bund.net/public/ergebnisDetails.jsp"
	defaultUserAgent   = "BasketballBund-Crawler/1.0"
	defaultTimeout     = 30 * time.Second
	maxBodyBytes       = 8 << 20
)

type ClientConfig struct {
	HTTPClient     *http.Client
	APIBaseURL     string
	BoxScoreURL    string
	UserAgent      string
	LeagueID       int
	Timeout        time.Duration
	Limiter        *ratelimit.Limiter
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the federation REST API and its public result pages.
// Every request waits on the shared limiter first.
type Client struct {
	httpClient  *http.Client
	apiBaseURL  string
	boxScoreURL string
	userAgent   string
	leagueID    int
	timeout     time.Duration
	limiter     *ratelimit.Limiter
	logger      *logging.Logger
	breaker     *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("basketballbund")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnTransition(func(from, to resilience.CircuitState) {
		logger.Warn("basketball-bund circuit breaker changed state", "from", from, "to", to)
	})

	return &Client{
		httpClient:  httpClient,
		apiBaseURL:  firstNonEmpty(strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/"), defaultAPIBaseURL),
		boxScoreURL: firstNonEmpty(strings.TrimSpace(cfg.BoxScoreURL), defaultBoxScoreURL),
		userAgent:   firstNonEmpty(strings.TrimSpace(cfg.UserAgent), defaultUserAgent),
		leagueID:    cfg.LeagueID,
		timeout:     timeout,
		limiter:     cfg.Limiter,
		logger:      logger,
		breaker:     breaker,
	}
}

// BoxScoreURL is the public result page of one game in this client's league.
func (c *Client) BoxScoreURL(gameID string) string {
	return BoxScoreURL(c.boxScoreURL, gameID, c.leagueID)
}

// BoxScoreURL keeps the parameter order the result pages are linked with.
func BoxScoreURL(base, gameID string, leagueID int) string {
	return fmt.Sprintf("%s?type=1&spielplan_id=%s&liga_id=%d&defaultview=1", base, gameID, leagueID)
}

// FetchCompetition returns the league details of /competition/list.
func (c *Client) FetchCompetition(ctx context.Context) ([]Competition, error) {
	body, err := sonic.Marshal([]int{c.leagueID})
	if err != nil {
		return nil, fmt.Errorf("encode competition request: %w", err)
	}

	var resp envelope[competitionList]
	if err := c.doJSON(ctx, http.MethodPost, "/competition/list", body, &resp); err != nil {
		return nil, fmt.Errorf("fetch competition league_id=%d: %w", c.leagueID, err)
	}
	return resp.Data, nil
}

func (c *Client) FetchTable(ctx context.Context) ([]StandingEntry, error) {
	var resp envelope[tableData]
	path := "/competition/table/id/" + strconv.Itoa(c.leagueID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch table league_id=%d: %w", c.leagueID, err)
	}
	return resp.Data.Tabelle.Entries, nil
}

func (c *Client) FetchSchedule(ctx context.Context) ([]Match, error) {
	var resp envelope[scheduleData]
	path := "/competition/spielplan/id/" + strconv.Itoa(c.leagueID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch schedule league_id=%d: %w", c.leagueID, err)
	}
	return resp.Data.Matches, nil
}

// FetchBoxScoreHTML downloads the result page of one game. Result pages
// bypass the breaker: a broken page fails only its own game.
func (c *Client) FetchBoxScoreHTML(ctx context.Context, gameID string) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch box score game_id=%s: %w", gameID, err)
	}

	var out []byte
	err := c.execute(ctx, http.MethodGet, c.BoxScoreURL(gameID), nil, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", func(body []byte) error {
		out = append([]byte(nil), body...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch box score game_id=%s: %w", gameID, err)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, target interface{ status() (string, string) }) error {
	return c.do(ctx, method, c.apiBaseURL+path, body, "application/json", func(raw []byte) error {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return crerr.Mark(fmt.Errorf("decode provider payload: %w", err), ErrUpstreamUnavailable)
		}
		if status, message := target.status(); status != "0" {
			return crerr.Mark(
				fmt.Errorf("provider status=%q message=%q", status, message),
				ErrUpstreamApplication,
			)
		}
		return nil
	})
}

func (e *envelope[T]) status() (string, string) {
	return strings.TrimSpace(e.Status.String()), e.Message
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.WaitContext(ctx); err != nil {
		return crerr.Mark(fmt.Errorf("wait for rate limiter: %w", err), ErrUpstreamUnavailable)
	}
	return nil
}

// do waits for a limiter slot, sends one request through the breaker and
// hands the response body to handle. The body is only valid inside handle.
func (c *Client) do(ctx context.Context, method, fullURL string, body []byte, accept string, handle func([]byte) error) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.execute(ctx, method, fullURL, body, accept, handle)
	}, isBundCircuitFailure)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "basketball-bund circuit breaker rejected request", "url", fullURL)
		return crerr.Mark(err, ErrUpstreamUnavailable)
	}
	return err
}

func (c *Client) execute(ctx context.Context, method, fullURL string, body []byte, accept string, handle func([]byte) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return markUnavailable(fmt.Errorf("%w: send request: %v", errBundTransient, err))
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return markUnavailable(fmt.Errorf("%w: read response body: %v", errBundTransient, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B))
		if isRetryableStatus(resp.StatusCode) {
			statusErr = fmt.Errorf("%w: %v", errBundTransient, statusErr)
		}
		c.logger.WarnContext(ctx, "basketball-bund request failed", "url", fullURL, "status", resp.StatusCode)
		return markUnavailable(statusErr)
	}

	return handle(buf.B)
}

func markUnavailable(err error) error {
	return crerr.Mark(err, ErrUpstreamUnavailable)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
