package media

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Prober looks up the content type of a remote media URL.
type Prober interface {
	Probe(rawURL string) (string, bool)
}

// NoopProber never finds anything.
type NoopProber struct{}

func (NoopProber) Probe(string) (string, bool) {
	return "", false
}

const (
	defaultProbeTimeout = 800 * time.Millisecond
	maxProbeRedirects   = 2
	probeUserAgent      = "ekatra-normalizer/1.0"
)

// HTTPProber issues a bounded HEAD request and reads Content-Type.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewHTTPProber clamps timeout below one second.
func NewHTTPProber(timeout time.Duration, logger *slog.Logger) *HTTPProber {
	if timeout <= 0 || timeout >= time.Second {
		timeout = defaultProbeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPProber{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxProbeRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		timeout: timeout,
		logger:  logger.With("component", "media_prober"),
	}
}

func (p *HTTPProber) Probe(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", probeUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("content type probe failed", "url", rawURL, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return "", false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(ct, ";")[0])
	}
	return mediaType, mediaType != ""
}
