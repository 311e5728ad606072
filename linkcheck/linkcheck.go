// Package linkcheck verifies that the image and file URLs referenced by an
// import are reachable, and reports the broken ones.
package linkcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/wisdomrain/bookfeed/models"
)

// URLSet carries the URLs collected during an import run, by context.
type URLSet struct {
	ImageURLs []string
	FileURLs  []string
}

// Validator performs lightweight existence checks: a HEAD request with a
// bounded timeout and a small redirect budget, falling back to GET when
// HEAD fails. Syntactically invalid URLs are rejected without any network
// traffic.
type Validator struct {
	collector *colly.Collector
	logDir    string

	mu sync.Mutex
}

// NewValidator builds a validator. logDir receives a best-effort
// human-readable report per run; empty disables logging.
func NewValidator(timeout time.Duration, maxRedirects int, userAgent, logDir string) *Validator {
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
	collector.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	})

	v := &Validator{collector: collector, logDir: logDir}
	v.collector.OnResponse(func(r *colly.Response) {
		if res, ok := r.Ctx.GetAny("check").(*checkResult); ok {
			res.status = r.StatusCode
			res.done = true
		}
	})
	v.collector.OnError(func(r *colly.Response, err error) {
		res, ok := r.Ctx.GetAny("check").(*checkResult)
		if !ok {
			return
		}
		res.done = true
		res.err = err
		if r != nil {
			res.status = r.StatusCode
		}
	})
	return v
}

type checkResult struct {
	status int
	err    error
	done   bool
}

// Validate checks every unique URL in the set, images first, and returns
// the report. Broken URLs are data, not errors; Validate never fails.
func (v *Validator) Validate(ctx context.Context, set URLSet) *models.LinkReport {
	report := &models.LinkReport{}
	v.validateURLs(ctx, dedupe(set.ImageURLs), "Image", report)
	v.validateURLs(ctx, dedupe(set.FileURLs), "File", report)
	v.writeLog(report)
	return report
}

func (v *Validator) validateURLs(ctx context.Context, urls []string, label string, report *models.LinkReport) {
	for _, u := range urls {
		report.TotalChecked++
		if v.checkURL(ctx, u) {
			report.OK++
			continue
		}
		report.Broken++
		report.BrokenList = append(report.BrokenList, fmt.Sprintf("%s: %s", label, u))
	}
}

func (v *Validator) checkURL(ctx context.Context, rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	status, err := v.request(http.MethodHead, rawURL)
	if err != nil && status == 0 {
		// Transport-level HEAD failure; some servers reject HEAD outright.
		status, err = v.request(http.MethodGet, rawURL)
	}
	if err != nil && status == 0 {
		return false
	}
	return status >= 200 && status < 400
}

func (v *Validator) request(method, rawURL string) (int, error) {
	res := &checkResult{}
	reqCtx := colly.NewContext()
	reqCtx.Put("check", res)
	if err := v.collector.Request(method, rawURL, nil, reqCtx, nil); err != nil {
		return 0, err
	}
	if !res.done {
		return 0, fmt.Errorf("no response for %s", rawURL)
	}
	return res.status, res.err
}

// writeLog records a human-readable health report. Failures never affect
// validation.
func (v *Validator) writeLog(report *models.LinkReport) {
	if v.logDir == "" {
		return
	}
	if err := os.MkdirAll(v.logDir, 0o755); err != nil {
		slog.Debug("link report dir", slog.Any("error", err))
		return
	}

	now := time.Now().UTC()
	lines := []string{
		fmt.Sprintf("[Import Health Report - %s UTC]", now.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Total Checked: %d", report.TotalChecked),
		fmt.Sprintf("OK: %d", report.OK),
		fmt.Sprintf("Broken: %d", report.Broken),
	}
	if len(report.BrokenList) > 0 {
		lines = append(lines, "", "Broken URLs:")
		lines = append(lines, report.BrokenList...)
	}

	name := filepath.Join(v.logDir, "import-log-"+now.Format("2006-01-02-150405")+".txt")
	if err := os.WriteFile(name, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		slog.Debug("link report write", slog.Any("error", err))
	}
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
