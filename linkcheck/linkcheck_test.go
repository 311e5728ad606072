package linkcheck

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

func newTestValidator(t *testing.T, logDir string) (*Validator, *httpmock.MockTransport) {
	t.Helper()
	v := NewValidator(2*time.Second, 3, "test-agent", logDir)
	transport := httpmock.NewMockTransport()
	v.collector.WithTransport(transport)
	return v, transport
}

func TestValidateReachableAndBroken(t *testing.T) {
	v, transport := newTestValidator(t, "")
	transport.RegisterResponder(http.MethodHead, "https://cdn.example.com/ok.jpg",
		httpmock.NewStringResponder(200, ""))
	transport.RegisterResponder(http.MethodHead, "https://cdn.example.com/gone.pdf",
		httpmock.NewStringResponder(404, ""))
	transport.RegisterResponder(http.MethodGet, "https://cdn.example.com/gone.pdf",
		httpmock.NewStringResponder(404, ""))

	report := v.Validate(context.Background(), URLSet{
		ImageURLs: []string{"https://cdn.example.com/ok.jpg"},
		FileURLs:  []string{"https://cdn.example.com/gone.pdf"},
	})

	if report.TotalChecked != 2 || report.OK != 1 || report.Broken != 1 {
		t.Fatalf("report = %+v, want 2 checked / 1 ok / 1 broken", report)
	}
	if len(report.BrokenList) != 1 || report.BrokenList[0] != "File: https://cdn.example.com/gone.pdf" {
		t.Errorf("broken list = %v", report.BrokenList)
	}
}

func TestValidateFallsBackToGet(t *testing.T) {
	v, transport := newTestValidator(t, "")
	// HEAD fails at the transport level; GET succeeds.
	transport.RegisterResponder(http.MethodHead, "https://cdn.example.com/file.pdf",
		httpmock.NewErrorResponder(errors.New("connection reset")))
	transport.RegisterResponder(http.MethodGet, "https://cdn.example.com/file.pdf",
		httpmock.NewStringResponder(200, "data"))

	report := v.Validate(context.Background(), URLSet{
		FileURLs: []string{"https://cdn.example.com/file.pdf"},
	})
	if report.OK != 1 || report.Broken != 0 {
		t.Errorf("report = %+v, want the GET fallback to succeed", report)
	}
}

func TestValidateMalformedURLSkipsNetwork(t *testing.T) {
	v, transport := newTestValidator(t, "")

	report := v.Validate(context.Background(), URLSet{
		ImageURLs: []string{"not a url", "ftp://example.com/x", "https://"},
	})

	if report.Broken != 3 || report.OK != 0 {
		t.Fatalf("report = %+v, want all 3 broken", report)
	}
	if calls := transport.GetTotalCallCount(); calls != 0 {
		t.Errorf("malformed URLs caused %d network calls, want 0", calls)
	}
}

func TestValidateDeduplicates(t *testing.T) {
	v, transport := newTestValidator(t, "")
	transport.RegisterResponder(http.MethodHead, "https://cdn.example.com/a.jpg",
		httpmock.NewStringResponder(200, ""))

	report := v.Validate(context.Background(), URLSet{
		ImageURLs: []string{
			"https://cdn.example.com/a.jpg",
			" https://cdn.example.com/a.jpg ",
			"https://cdn.example.com/a.jpg",
		},
	})
	if report.TotalChecked != 1 {
		t.Errorf("checked %d URLs, want 1 after dedupe", report.TotalChecked)
	}
}

func TestValidateWritesHealthLog(t *testing.T) {
	logDir := t.TempDir()
	v, transport := newTestValidator(t, logDir)
	transport.RegisterResponder(http.MethodHead, "https://cdn.example.com/gone.jpg",
		httpmock.NewStringResponder(404, ""))
	transport.RegisterResponder(http.MethodGet, "https://cdn.example.com/gone.jpg",
		httpmock.NewStringResponder(404, ""))

	v.Validate(context.Background(), URLSet{
		ImageURLs: []string{"https://cdn.example.com/gone.jpg"},
	})

	entries, err := os.ReadDir(logDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %d (err=%v)", len(entries), err)
	}
	data, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "[Import Health Report - ") {
		t.Errorf("log header missing: %q", content)
	}
	if !strings.Contains(content, "Image: https://cdn.example.com/gone.jpg") {
		t.Errorf("broken URL missing from log: %q", content)
	}
}
