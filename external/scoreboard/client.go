package scoreboard

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/courtside/pickup-queue/internal/platform/logging"
	"github.com/courtside/pickup-queue/internal/platform/resilience"
	"github.com/courtside/pickup-queue/internal/usecase"
)

var errScoreboardTransient = crerr.New("scoreboard transient failure")

type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pushes final scores to the venue scoreboard over HTTP. Failures are
// reported back to the caller but never retried here; the scoreboard is a
// display, not a system of record.
type Client struct {
	client         *http.Client
	baseURL        string
	token          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := cfg.CircuitBreaker.WithDefaults()

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type finalScorePayload struct {
	GameID     string    `json:"game_id"`
	GameSetID  string    `json:"game_set_id"`
	Court      string    `json:"court"`
	Team1Score int       `json:"team_1_score"`
	Team2Score int       `json:"team_2_score"`
	FinishedAt time.Time `json:"finished_at"`
}

// PublishFinalScore posts one finalized game to the scoreboard endpoint.
func (c *Client) PublishFinalScore(ctx context.Context, score usecase.FinalScore) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "scoreboard circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("scoreboard is temporarily unavailable: %w", err)
		}
	}

	baseURL, err := validateHTTPBaseURL(c.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid SCOREBOARD_BASE_URL")
	}
	publishURL := baseURL + "/v1/scores"

	body, err := sonic.Marshal(finalScorePayload{
		GameID:     score.GameID,
		GameSetID:  score.GameSetID,
		Court:      score.Court,
		Team1Score: score.Team1Score,
		Team2Score: score.Team2Score,
		FinishedAt: score.FinishedAt.UTC(),
	})
	if err != nil {
		return crerr.Wrap(err, "marshal final score payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("scoreboard.publish_url", publishURL),
			attribute.String("scoreboard.game_id", score.GameID),
			attribute.String("scoreboard.court", score.Court),
		)
	}
	c.logger.InfoContext(ctx, "scoreboard publish request",
		"publish_url", publishURL,
		"game_id", score.GameID,
		"curl_preview", buildCurlPreview(publishURL, string(body), c.token != ""),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create scoreboard request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: publish final score game_id=%s publish_url=%s: %v",
			errScoreboardTransient, score.GameID, publishURL, err)
		c.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		callErr := fmt.Errorf("publish final score status=%d game_id=%s publish_url=%s body=%s",
			resp.StatusCode, score.GameID, publishURL, strings.TrimSpace(string(raw)))
		if isRetryableStatus(resp.StatusCode) {
			callErr = fmt.Errorf("%w: %v", errScoreboardTransient, callErr)
		}
		c.recordCircuitResult(callErr)
		return callErr
	}

	c.logger.InfoContext(ctx, "final score published",
		"game_id", score.GameID,
		"court", score.Court,
	)
	c.recordCircuitResult(nil)
	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(publishURL, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(publishURL))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(body, 4096)))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errScoreboardTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
