package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SerperClient calls the Serper search API (web, image and video search).
type SerperClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSerperClient creates a new Serper client.
func NewSerperClient(baseURL, apiKey string, timeout time.Duration) *SerperClient {
	return &SerperClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WebResult is a single organic search result.
type WebResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// WebSearchResult is the structured result of a web search.
type WebSearchResult struct {
	Success bool        `json:"success"`
	Query   string      `json:"query,omitempty"`
	Results []WebResult `json:"results,omitempty"`
	Total   int         `json:"total,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ImageResult is a single image search result.
type ImageResult struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
}

// ImageSearchResult is the structured result of an image search.
type ImageSearchResult struct {
	Success bool          `json:"success"`
	Query   string        `json:"query,omitempty"`
	Images  []ImageResult `json:"images,omitempty"`
	Total   int           `json:"total,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// VideoResult is a single video search result.
type VideoResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Channel  string `json:"channel"`
	Duration string `json:"duration"`
}

// VideoSearchResult is the structured result of a video search.
type VideoSearchResult struct {
	Success bool          `json:"success"`
	Query   string        `json:"query,omitempty"`
	Videos  []VideoResult `json:"videos,omitempty"`
	Total   int           `json:"total,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// WebSearch runs a web search and returns up to 5 organic results.
func (c *SerperClient) WebSearch(ctx context.Context, query string) *WebSearchResult {
	if c.apiKey == "" {
		return &WebSearchResult{Error: "Serper API key not configured"}
	}

	var data struct {
		Organic []WebResult `json:"organic"`
	}
	if err := c.post(ctx, "/search", query, 5, &data); err != nil {
		return &WebSearchResult{Error: err.Error()}
	}

	results := data.Organic
	if len(results) > 5 {
		results = results[:5]
	}
	return &WebSearchResult{
		Success: true,
		Query:   query,
		Results: results,
		Total:   len(results),
	}
}

// ImageSearch runs an image search and returns up to 10 images.
func (c *SerperClient) ImageSearch(ctx context.Context, query string) *ImageSearchResult {
	if c.apiKey == "" {
		return &ImageSearchResult{Error: "Serper API key not configured"}
	}

	var data struct {
		Images []ImageResult `json:"images"`
	}
	if err := c.post(ctx, "/images", query, 10, &data); err != nil {
		return &ImageSearchResult{Error: err.Error()}
	}

	images := data.Images
	if len(images) > 10 {
		images = images[:10]
	}
	return &ImageSearchResult{
		Success: true,
		Query:   query,
		Images:  images,
		Total:   len(images),
	}
}

// VideoSearch runs a video search and returns up to 5 videos.
func (c *SerperClient) VideoSearch(ctx context.Context, query string) *VideoSearchResult {
	if c.apiKey == "" {
		return &VideoSearchResult{Error: "Serper API key not configured"}
	}

	var data struct {
		Videos []VideoResult `json:"videos"`
	}
	if err := c.post(ctx, "/videos", query, 5, &data); err != nil {
		return &VideoSearchResult{Error: err.Error()}
	}

	videos := data.Videos
	if len(videos) > 5 {
		videos = videos[:5]
	}
	return &VideoSearchResult{
		Success: true,
		Query:   query,
		Videos:  videos,
		Total:   len(videos),
	}
}

// post sends a search request and decodes the response into out.
func (c *SerperClient) post(ctx context.Context, path, query string, num int, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"q": query, "num": num})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search API error [%d]", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
