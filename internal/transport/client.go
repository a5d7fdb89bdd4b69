// Package transport executes indexer requests over HTTP.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/utils"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 16 << 20
	DefaultUserAgent    = "sift/1.0"
	maxRetryAfter       = 5 * time.Second
)

// Doer executes one indexer request.
type Doer interface {
	Do(ctx context.Context, req *indexer.Request) (*indexer.Response, error)
}

// Options configures the HTTP client.
type Options struct {
	Timeout      time.Duration // per request, including body read
	UserAgent    string
	MaxBodyBytes int64
	// Retries is the number of extra attempts after a 429 or 503 response.
	Retries int
}

// Client is the net/http backed Doer. Non-2xx responses are returned as-is
// so adapters can classify them. Only network failures become errors.
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// New builds a client with its own connection pool.
func New(opts Options, log logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts: opts,
		log:  log,
	}
}

// Do sends req, retrying throttled responses when Retries allows it.
func (c *Client) Do(ctx context.Context, req *indexer.Request) (*indexer.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.once(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request %s: %w", redact(req.URL), ctx.Err())
			}
			return nil, domain.NewTransportError(0, redactErr(err))
		}
		if !retryable(resp.StatusCode) || attempt >= c.opts.Retries {
			return resp, nil
		}

		wait := retryAfter(resp.Header.Get("Retry-After"))
		c.log.Debug("indexer throttled, retrying",
			logger.String("url", redact(req.URL)),
			logger.Int("status", resp.StatusCode),
			logger.Duration("wait", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("request %s: %w", redact(req.URL), ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *Client) once(ctx context.Context, req *indexer.Request) (*indexer.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.opts.UserAgent)
	}
	if accept := acceptHeader(req.Accept); accept != "" && httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", accept)
	}
	for name, value := range req.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer utils.Close(httpResp.Body)

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.opts.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > c.opts.MaxBodyBytes {
		return nil, errors.New("response body exceeds limit")
	}

	cookies := make(map[string]string)
	for _, ck := range httpResp.Cookies() {
		cookies[ck.Name] = ck.Value
	}

	return &indexer.Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		Cookies:    cookies,
		Elapsed:    time.Since(start),
		Request:    req,
	}, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func retryAfter(v string) time.Duration {
	wait := time.Second
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		wait = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(v); err == nil {
		wait = time.Until(t)
	}
	return min(max(wait, 0), maxRetryAfter)
}

func acceptHeader(expect string) string {
	switch expect {
	case indexer.ExpectJSON:
		return "application/json"
	case indexer.ExpectXML:
		return "application/rss+xml, application/xml, text/xml"
	}
	return ""
}
