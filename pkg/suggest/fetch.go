package suggest

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher retrieves the raw suggestion payload for a query. Implementations
// must return promptly once ctx is canceled.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (Payload, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, query string) (Payload, error)

func (f FetcherFunc) Fetch(ctx context.Context, query string) (Payload, error) {
	return f(ctx, query)
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("suggestion endpoint %s returned status %d", e.URL, e.StatusCode)
}

// HTTPFetcher issues GET <BaseURL><query>. The query is appended as-is,
// without escaping; callers whose endpoint needs escaping must configure a
// base URL and queries accordingly.
type HTTPFetcher struct {
	BaseURL string

	// Client defaults to http.DefaultClient.
	Client *http.Client

	// Header is sent with every request, e.g. for authentication.
	Header http.Header
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{BaseURL: baseURL}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, query string) (Payload, error) {
	url := f.BaseURL + query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building suggestion request: %w", err)
	}
	for name, values := range f.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading suggestion response: %w", err)
	}

	return body, nil
}
