// Package relay talks to the conversational analytics relay behind the chat panel
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/logger"
	pstrings "trendlens/internal/platform/strings"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxWait          = 30 * time.Second
	bodyTail         = 512
)

// Outcome labels reported to Options.Observe
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeUnavailable = "unavailable"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
)

// Options configures the Client
type Options struct {
	URL     string
	Timeout time.Duration

	// Retry config for transport errors, 429 and gateway statuses
	MaxRetries int
	RetryBase  time.Duration

	// HTTPClient overrides the default client, Timeout is ignored when set
	HTTPClient *http.Client

	// Observe receives one sample per Ask
	Observe func(outcome string, elapsed time.Duration)
}

// Question is one chat turn
type Question struct {
	Message   string
	Dataset   trend.Source
	SessionID string
}

// Answer is the relay's reply with its artifacts decoded
type Answer struct {
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	Image     *Image    `json:"image,omitempty"`
	Document  *Document `json:"document,omitempty"`
}

type request struct {
	Message string `json:"message"`
	Data    string `json:"data"`
}

type reply struct {
	Message string `json:"message"`
	Image   string `json:"image"`
	PDF     string `json:"pdf"`
}

// Client posts questions to the relay with retries and backoff
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewClient creates a Client, a blank URL makes every Ask fail Unavailable
func NewClient(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http:  hc,
		opts:  o,
		log:   *logger.Named("relay"),
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Enabled reports whether a relay URL is configured
func (c *Client) Enabled() bool { return c != nil && c.opts.URL != "" }

// Label maps a source to the dataset name the relay knows
func Label(s trend.Source) (string, error) {
	switch s {
	case trend.SourceBrand:
		return "instagram", nil
	case trend.SourceSearch:
		return "trends", nil
	case trend.SourceConsumer:
		return "cla", nil
	}
	return "", perr.WithField(perr.InvalidArgf("unknown dataset %q", s), "dataset")
}

// Ask sends q and decodes the reply
func (c *Client) Ask(ctx context.Context, q Question) (Answer, error) {
	start := c.now()
	ans, err := c.ask(ctx, q)
	if c.opts.Observe != nil {
		c.opts.Observe(outcomeOf(err), c.now().Sub(start))
	}
	return ans, err
}

func (c *Client) ask(ctx context.Context, q Question) (Answer, error) {
	if !c.Enabled() {
		return Answer{}, perr.Unavailablef("chat relay is not configured")
	}
	if pstrings.FirstNonBlank(q.Message) == "" {
		return Answer{}, perr.WithField(perr.InvalidArgf("message is required"), "message")
	}
	label, err := Label(q.Dataset)
	if err != nil {
		return Answer{}, err
	}
	session := q.SessionID
	if session == "" {
		session = uuid.NewString()
	}

	body, err := json.Marshal(request{Message: q.Message, Data: label})
	if err != nil {
		return Answer{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "relay encode failed")
	}
	raw, err := c.do(ctx, body, session)
	if err != nil {
		return Answer{}, err
	}

	var rep reply
	if err := json.Unmarshal(raw, &rep); err != nil {
		return Answer{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "relay sent invalid json: %s", pstrings.Tail(string(raw), bodyTail))
	}
	ans := Answer{SessionID: session, Message: rep.Message}
	if rep.Image != "" {
		img, err := DecodeImage(rep.Image)
		if err != nil {
			return Answer{}, err
		}
		ans.Image = &img
	}
	if rep.PDF != "" {
		doc, err := DecodeDocument(rep.PDF)
		if err != nil {
			return Answer{}, err
		}
		ans.Document = &doc
	}
	return ans, nil
}

// do posts body, retrying transport errors, 429 and gateway statuses
func (c *Client) do(ctx context.Context, body []byte, session string) ([]byte, error) {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(body))
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "relay new request failed")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Session-ID", session)

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "relay unreachable")
			}
			if err := c.wait(ctx, c.backoff(attempts), attempts, "relay transport error retrying"); err != nil {
				return nil, err
			}
			attempts++
			continue
		}

		c.log.Debug().
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Str("session", session).
			Msg("relay http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer resp.Body.Close()
			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "relay body read failed")
			}
			return raw, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header.Get("Retry-After"), c.now())
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Newf(perr.ErrorCodeTooManyRequests, "relay rate limited")
			}
			if err := c.wait(ctx, wait, attempts, "relay rate limited backing off"); err != nil {
				return nil, err
			}
			attempts++
			continue
		case resp.StatusCode == http.StatusBadGateway,
			resp.StatusCode == http.StatusServiceUnavailable,
			resp.StatusCode == http.StatusGatewayTimeout:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Unavailablef("relay transient status %d", resp.StatusCode)
			}
			if err := c.wait(ctx, c.backoff(attempts), attempts, "relay transient error retrying"); err != nil {
				return nil, err
			}
			attempts++
			continue
		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Unavailablef("relay unexpected status %d body %s", resp.StatusCode, pstrings.Tail(string(tail), bodyTail))
		}
	}
}

func (c *Client) wait(ctx context.Context, d time.Duration, attempt int, msg string) error {
	c.log.Warn().Dur("retry_in", d).Int("attempt", attempt).Msg(msg)
	return c.sleep(ctx, d)
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > maxWait {
		return maxWait
	}
	return d
}

func (c *Client) shouldRetry(attempt int) bool { return attempt < c.opts.MaxRetries }

func outcomeOf(err error) string {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeUnknown:
		if err == nil {
			return OutcomeOK
		}
		return OutcomeError
	case perr.ErrorCodeTooManyRequests:
		return OutcomeRateLimited
	case perr.ErrorCodeUnavailable:
		return OutcomeUnavailable
	case perr.ErrorCodeInvalidArgument:
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
