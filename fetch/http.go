package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// HTTPSource streams a URL's full body. It is grounded in the teacher's
// core/http.Source range-fetcher, simplified from ranged reads to a single
// full-body stream since RememberFile never needs partial reads.
type HTTPSource struct {
	url        string
	client     *http.Client
	userAgent  string
	readTimeout time.Duration
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithConnectTimeout bounds the time spent establishing the TCP connection.
func WithConnectTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		transport := &http.Transport{
			DialContext: (&net.Dialer{Timeout: d}).DialContext,
		}
		s.client.Transport = transport
	}
}

// WithReadTimeout bounds the time spent reading the full response body.
func WithReadTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.readTimeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with the request.
func WithUserAgent(ua string) HTTPOption {
	return func(s *HTTPSource) {
		s.userAgent = ua
	}
}

// WithHTTPClient overrides the underlying *http.Client entirely.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// NewHTTPSource builds a Source that streams url's body over HTTP.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:       url,
		client:    &http.Client{},
		userAgent: "FileCache/1.0",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.readTimeout)
		_ = cancel // the body wrapper below cancels on Close
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("fetch: build request for %s: %w", s.url, err)
		}
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("fetch: GET %s: %w", s.url, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			cancel()
			return nil, fmt.Errorf("fetch: GET %s: unexpected status %s", s.url, resp.Status)
		}
		return &cancelingBody{ReadCloser: resp.Body, cancel: cancel}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request for %s: %w", s.url, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: GET %s: %w", s.url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch: GET %s: unexpected status %s", s.url, resp.Status)
	}
	return resp.Body, nil
}

// cancelingBody releases the request's context cancel func when closed, so
// the read-timeout deadline doesn't leak past the fetch.
type cancelingBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelingBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
