package stenprot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrNotFound marks a transcript page that does not exist. Part
// numbers within a session are contiguous, so the first missing part
// is the end of the session.
var ErrNotFound = errors.New("transcript page not found")

const DefaultBaseUrl = "https://www.psp.cz"

// DefaultTerm is the electoral-term path segment of the stenoprotocol
// archive, e.g. "2021ps" for the chamber elected in 2021.
const DefaultTerm = "2021ps"

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	Term    string

	maxRetries int
}

type ClientOptions struct {
	BaseUrl string
	Term    string
	// retry attempts per page, 5 when zero
	MaxRetries int
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Term == "" {
		opts.Term = DefaultTerm
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	return &Client{
		BaseUrl:    baseUrl,
		Http:       client,
		Term:       opts.Term,
		maxRetries: opts.MaxRetries,
	}, nil
}

// TranscriptFilename is the canonical name of one transcript page,
// "s126001.htm" for session 126 part 1.
func TranscriptFilename(session, part int) string {
	return fmt.Sprintf("s%d%03d.htm", session, part)
}

// FetchTranscript downloads one stenoprotocol page and returns its
// content decoded from windows-1250 to UTF-8. Returns ErrNotFound for
// a missing page or a non-HTML response.
func (c *Client) FetchTranscript(ctx context.Context, session, part int) (string, error) {
	path := fmt.Sprintf(
		"/eknih/%s/stenprot/%dschuz/%s",
		c.Term, session, TranscriptFilename(session, part),
	)

	res, err := c.getWithRetry(ctx, path)
	if err != nil {
		return "", err
	}
	if res.StatusCode() != 200 || !strings.Contains(res.Header().Get("Content-Type"), "html") {
		slog.Debug(
			"transcript page missing",
			"session", session,
			"part", part,
			"status", res.StatusCode(),
		)
		return "", ErrNotFound
	}

	return DecodeWindows1250(res.Body())
}

// EnsureUTF8 returns page content as UTF-8. Pages fetched through
// FetchTranscript are already decoded, but pages unpacked from the zip
// archives (and overview pages saved verbatim) are still windows-1250.
func EnsureUTF8(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return DecodeWindows1250(raw)
}

// DecodeWindows1250 converts the legacy windows-1250 encoding the
// psp.cz archive serves into UTF-8.
func DecodeWindows1250(body []byte) (string, error) {
	decoded, err := io.ReadAll(transform.NewReader(
		bytes.NewReader(body),
		charmap.Windows1250.NewDecoder(),
	))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func (c *Client) getWithRetry(ctx context.Context, path string) (*resty.Response, error) {
	backoff := 2 * time.Second
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		res, err := c.Http.R().SetContext(ctx).Get(path)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		jitterMs, jerr := random.IntRange(0, 1000)
		if jerr != nil {
			jitterMs = 0
		}
		delay := backoff + time.Duration(jitterMs)*time.Millisecond
		slog.Warn(
			"fetch failed, retrying",
			"path", path,
			"attempt", attempt,
			"delay", delay,
			"err", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("giving up on %s after %d attempts: %w", path, c.maxRetries, lastErr)
}
