package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tapoctl/internal/domain"
)

// DefaultTimeout bounds a single exchange when the caller sets no deadline.
const DefaultTimeout = 10 * time.Second

// MaxBody caps response reads; device replies are a few KiB.
const MaxBody = 1 << 20

// ErrResponseTooLarge is returned when a response body exceeds MaxBody.
var ErrResponseTooLarge = errors.New("response too large")

// HTTP posts request bodies with net/http.
type HTTP struct {
	Client *http.Client
	Log    zerolog.Logger
}

// NewHTTP returns a transport with its own client and timeout.
func NewHTTP(timeout time.Duration, log zerolog.Logger) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		Client: &http.Client{Timeout: timeout},
		Log:    log,
	}
}

// Post sends body to url and returns the response body and headers.
func (t *HTTP) Post(
	ctx context.Context,
	url string,
	body []byte,
	header http.Header,
) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := t.client().Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("post %s: %w", req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	t.Log.Debug().
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("exchange")

	if resp.StatusCode/100 != 2 {
		return nil, resp.Header, fmt.Errorf("post %s%s: %s", req.URL.Host, req.URL.Path, resp.Status)
	}
	out, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	if err != nil {
		return nil, resp.Header, fmt.Errorf("read %s%s: %w", req.URL.Host, req.URL.Path, err)
	}
	if len(out) > MaxBody {
		return nil, resp.Header, fmt.Errorf("read %s%s: %w (over %d bytes)", req.URL.Host, req.URL.Path, ErrResponseTooLarge, MaxBody)
	}
	return out, resp.Header, nil
}

func (t *HTTP) client() *http.Client {
	if t.Client == nil {
		return http.DefaultClient
	}
	return t.Client
}

var _ domain.Transport = (*HTTP)(nil)
