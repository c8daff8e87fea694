package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultFetchTimeout bounds a single document retrieval.
	DefaultFetchTimeout = 15 * time.Second

	// Servers that content-negotiate or block default clients behave
	// better with an explicit feed-oriented Accept header.
	acceptHeader = "application/rss+xml, application/atom+xml, application/xml, text/xml, */*;q=0.8"

	// Bodies shorter than this cannot be a feed document; feed URLs in
	// the wild sometimes return empty bodies or HTML error pages with a
	// 200 status.
	minDocumentLength = 50

	// maxBodySize bounds memory per fetch.
	maxBodySize = 10 << 20
)

// FetchErrorKind classifies transport failures so the ingestion layer can
// map them to user-facing categories.
type FetchErrorKind string

const (
	FetchTimeout      FetchErrorKind = "timeout"
	FetchTransport    FetchErrorKind = "transport"
	FetchHTTPStatus   FetchErrorKind = "http_status"
	FetchEmptyContent FetchErrorKind = "empty_content"
	FetchNotXML       FetchErrorKind = "not_xml"
)

type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int // set for FetchHTTPStatus
	URL        string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	case FetchTimeout:
		return fmt.Sprintf("fetch %s: timed out", e.URL)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves remote documents with a bounded timeout, descriptive
// request headers and transparent redirect following.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Run retrieves the document at rawURL. Failures carry a *FetchError.
func (f *Fetcher) Run(ctx context.Context, rawURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &FetchError{Kind: FetchTimeout, URL: rawURL, Err: err}
		}
		return nil, &FetchError{Kind: FetchTransport, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: FetchHTTPStatus, StatusCode: resp.StatusCode, URL: rawURL}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if isTimeout(err) {
			return nil, &FetchError{Kind: FetchTimeout, URL: rawURL, Err: err}
		}
		return nil, &FetchError{Kind: FetchTransport, URL: rawURL, Err: err}
	}

	if len(strings.TrimSpace(string(data))) < minDocumentLength {
		return nil, &FetchError{Kind: FetchEmptyContent, URL: rawURL}
	}
	if !strings.Contains(string(data), "<") {
		return nil, &FetchError{Kind: FetchNotXML, URL: rawURL}
	}

	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
