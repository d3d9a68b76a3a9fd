package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxPageBytes bounds how much of a fetched page is returned to the model.
const maxPageBytes = 3000

// WebpageFetcher fetches raw page content from arbitrary URLs.
type WebpageFetcher struct {
	httpClient *http.Client
}

// NewWebpageFetcher creates a new webpage fetcher.
func NewWebpageFetcher(timeout time.Duration) *WebpageFetcher {
	return &WebpageFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchResult is the structured result of a webpage fetch.
type FetchResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Content string `json:"content,omitempty"`
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Fetch retrieves a page, following redirects, and returns the first
// maxPageBytes of its body.
func (f *WebpageFetcher) Fetch(ctx context.Context, pageURL string) *FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return &FetchResult{Error: fmt.Sprintf("failed to create request: %v", err)}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return &FetchResult{Error: fmt.Sprintf("failed to fetch page: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return &FetchResult{Error: fmt.Sprintf("failed to read page: %v", err)}
	}

	return &FetchResult{
		Success: true,
		URL:     pageURL,
		Content: string(body),
		Status:  resp.StatusCode,
	}
}
