package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
)

const relayURL = "http://relay.test/chat"

type sleeps struct{ got []time.Duration }

func (s *sleeps) sleep(_ context.Context, d time.Duration) error {
	s.got = append(s.got, d)
	return nil
}

func newMocked(t *testing.T, o Options) (*Client, *httpmock.MockTransport, *sleeps) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	o.URL = relayURL
	o.HTTPClient = &http.Client{Transport: mt}
	if o.RetryBase == 0 {
		o.RetryBase = 100 * time.Millisecond
	}
	c := NewClient(o)
	s := &sleeps{}
	c.sleep = s.sleep
	return c, mt, s
}

// onePagePDF builds an uncompressed single page pdf with a valid xref table
func onePagePDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return []byte(b.String())
}

func TestLabel(t *testing.T) {
	t.Parallel()
	cases := map[trend.Source]string{
		trend.SourceBrand:    "instagram",
		trend.SourceSearch:   "trends",
		trend.SourceConsumer: "cla",
	}
	for src, want := range cases {
		got, err := Label(src)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := Label("tiktok")
	require.Error(t, err)
	e, ok := perr.As(err)
	require.True(t, ok)
	assert.Equal(t, "dataset", e.Field())
}

func TestAsk_PostsPayloadAndDecodesArtifacts(t *testing.T) {
	t.Parallel()
	var outcomes []string
	c, mt, _ := newMocked(t, Options{Observe: func(o string, _ time.Duration) { outcomes = append(outcomes, o) }})

	png := []byte("\x89PNG\r\n\x1a\nfake")
	pdfB64 := base64.StdEncoding.EncodeToString(onePagePDF("Dubai villas lead growth"))
	mt.RegisterResponder(http.MethodPost, relayURL, func(req *http.Request) (*http.Response, error) {
		var in map[string]string
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			return nil, err
		}
		assert.Equal(t, "what is hot", in["message"])
		assert.Equal(t, "cla", in["data"])
		assert.Equal(t, "sess-1", req.Header.Get("X-Session-ID"))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]string{
			"message": "villas",
			"image":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
			"pdf":     pdfB64,
		})
	})

	ans, err := c.Ask(context.Background(), Question{Message: "what is hot", Dataset: trend.SourceConsumer, SessionID: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, "villas", ans.Message)
	assert.Equal(t, "sess-1", ans.SessionID)
	require.NotNil(t, ans.Image)
	assert.Equal(t, "image/png", ans.Image.MIME)
	assert.Equal(t, png, ans.Image.Data)
	require.NotNil(t, ans.Document)
	assert.Equal(t, 1, ans.Document.Pages)
	assert.Contains(t, ans.Document.Preview, "Dubai villas lead growth")
	assert.Equal(t, []string{OutcomeOK}, outcomes)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestAsk_AssignsSession(t *testing.T) {
	t.Parallel()
	c, mt, _ := newMocked(t, Options{})
	mt.RegisterResponder(http.MethodPost, relayURL, httpmock.NewStringResponder(http.StatusOK, `{"message":"hi"}`))

	ans, err := c.Ask(context.Background(), Question{Message: "hello", Dataset: trend.SourceSearch})
	require.NoError(t, err)
	assert.Len(t, ans.SessionID, 36)
	assert.Nil(t, ans.Image)
	assert.Nil(t, ans.Document)
}

func TestAsk_RetriesGatewayThenSucceeds(t *testing.T) {
	t.Parallel()
	c, mt, s := newMocked(t, Options{MaxRetries: 3})
	mt.RegisterResponder(http.MethodPost, relayURL,
		httpmock.NewStringResponder(http.StatusBadGateway, "bad gateway").
			Then(httpmock.NewStringResponder(http.StatusGatewayTimeout, "timeout")).
			Then(httpmock.NewStringResponder(http.StatusOK, `{"message":"ok"}`)))

	ans, err := c.Ask(context.Background(), Question{Message: "q", Dataset: trend.SourceBrand})
	require.NoError(t, err)
	assert.Equal(t, "ok", ans.Message)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, s.got)
	assert.Equal(t, 3, mt.GetTotalCallCount())
}

func TestAsk_HonorsRetryAfter(t *testing.T) {
	t.Parallel()
	c, mt, s := newMocked(t, Options{MaxRetries: 2})
	limited := httpmock.NewStringResponder(http.StatusTooManyRequests, "slow down").
		HeaderSet(http.Header{"Retry-After": []string{"7"}})
	mt.RegisterResponder(http.MethodPost, relayURL,
		limited.Then(httpmock.NewStringResponder(http.StatusOK, `{"message":"ok"}`)))

	_, err := c.Ask(context.Background(), Question{Message: "q", Dataset: trend.SourceBrand})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, s.got)
}

func TestAsk_Failures(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		responder httpmock.Responder
		code      perr.ErrorCode
		outcome   string
		contains  string
	}{
		{"rate limited exhausted", httpmock.NewStringResponder(http.StatusTooManyRequests, ""), perr.ErrorCodeTooManyRequests, OutcomeRateLimited, "rate limited"},
		{"gateway exhausted", httpmock.NewStringResponder(http.StatusServiceUnavailable, ""), perr.ErrorCodeUnavailable, OutcomeUnavailable, "transient"},
		{"other status carries tail", httpmock.NewStringResponder(http.StatusInternalServerError, "model exploded"), perr.ErrorCodeUnavailable, OutcomeUnavailable, "model exploded"},
		{"transport error", httpmock.NewErrorResponder(errors.New("connection refused")), perr.ErrorCodeUnavailable, OutcomeUnavailable, "unreachable"},
		{"bad json", httpmock.NewStringResponder(http.StatusOK, "<html>"), perr.ErrorCodeUpstream, OutcomeError, "invalid json"},
		{"bad image", httpmock.NewStringResponder(http.StatusOK, `{"message":"m","image":"data:image/png;base64,!!!"}`), perr.ErrorCodeUpstream, OutcomeError, "base64"},
		{"bad pdf", httpmock.NewStringResponder(http.StatusOK, `{"message":"m","pdf":"aGVsbG8="}`), perr.ErrorCodeUpstream, OutcomeError, "pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var outcome string
			c, mt, _ := newMocked(t, Options{MaxRetries: 1, Observe: func(o string, _ time.Duration) { outcome = o }})
			mt.RegisterResponder(http.MethodPost, relayURL, tc.responder)

			_, err := c.Ask(context.Background(), Question{Message: "q", Dataset: trend.SourceSearch})
			require.Error(t, err)
			assert.Equal(t, tc.code, perr.CodeOf(err), err.Error())
			assert.Contains(t, err.Error(), tc.contains)
			assert.Equal(t, tc.outcome, outcome)
		})
	}
}

func TestAsk_RejectsBeforeCalling(t *testing.T) {
	t.Parallel()
	c, mt, _ := newMocked(t, Options{})

	_, err := c.Ask(context.Background(), Question{Message: "  ", Dataset: trend.SourceSearch})
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))

	_, err = c.Ask(context.Background(), Question{Message: "q", Dataset: "nope"})
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Ask(ctx, Question{Message: "q", Dataset: trend.SourceSearch})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 0, mt.GetTotalCallCount())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	_, err = NewClient(Options{}).Ask(context.Background(), Question{Message: "q", Dataset: trend.SourceSearch})
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
}

func TestDecodeImage_BareBase64Sniffed(t *testing.T) {
	t.Parallel()
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'}
	img, err := DecodeImage(base64.StdEncoding.EncodeToString(jpeg))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIME)

	_, err = DecodeImage("data:image/png,notbase64")
	require.Error(t, err)
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 3*time.Second, retryAfter("3", now))
	assert.Equal(t, 10*time.Second, retryAfter(now.Add(10*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, maxWait, retryAfter("3600", now))
	assert.Zero(t, retryAfter("", now))
	assert.Zero(t, retryAfter("soon", now))
	assert.Zero(t, retryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
}

func TestPreview(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a b c", preview("  a\n b\t\tc ", 10))
	assert.Equal(t, "abc...", preview("abcdef", 3))
}

func TestSleepCtx_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
	assert.NoError(t, drainAndClose(io.NopCloser(strings.NewReader("x"))))
}
