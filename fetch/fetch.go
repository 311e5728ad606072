// Package fetch sideloads remote assets for the catalog, tagging each blob
// with its source URL so stores can de-duplicate by provenance.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

// Blob is a fetched remote resource.
type Blob struct {
	SourceURL   string
	Data        []byte
	ContentType string
	Filename    string
}

// Fetcher retrieves a remote resource by URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Blob, error)
}

// Client fetches blobs over HTTP through a colly collector.
type Client struct {
	collector *colly.Collector

	mu sync.Mutex
}

// NewClient builds a fetch client with the given request timeout and
// user agent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	collector := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	c := &Client{collector: collector}
	c.collector.OnResponse(func(r *colly.Response) {
		res, ok := r.Ctx.GetAny("result").(*fetchResult)
		if !ok {
			return
		}
		data := make([]byte, len(r.Body))
		copy(data, r.Body)
		res.blob = &Blob{
			Data:        data,
			ContentType: r.Headers.Get("Content-Type"),
		}
	})
	c.collector.OnError(func(r *colly.Response, err error) {
		res, ok := r.Ctx.GetAny("result").(*fetchResult)
		if !ok {
			return
		}
		res.err = err
	})
	return c
}

type fetchResult struct {
	blob *Blob
	err  error
}

// Fetch downloads the resource at rawURL. The returned blob carries the
// source URL and a filename derived from the URL path.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Blob, error) {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The collector runs synchronously and its handlers share per-request
	// state through the request context; serialize calls anyway.
	c.mu.Lock()
	defer c.mu.Unlock()

	res := &fetchResult{}
	reqCtx := colly.NewContext()
	reqCtx.Put("result", res)
	if err := c.collector.Request(http.MethodGet, rawURL, nil, reqCtx, nil); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if res.err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, res.err)
	}
	if res.blob == nil {
		return nil, fmt.Errorf("fetch %s: no response", rawURL)
	}
	res.blob.SourceURL = rawURL
	res.blob.Filename = filenameFromURL(parsed)
	return res.blob, nil
}

func filenameFromURL(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return u.Host
	}
	return name
}
