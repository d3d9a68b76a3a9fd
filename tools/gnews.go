package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GNewsClient calls the GNews article search API.
type GNewsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGNewsClient creates a new GNews client.
func NewGNewsClient(baseURL, apiKey string, timeout time.Duration) *GNewsClient {
	return &GNewsClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Article is a single news article.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
}

// NewsSearchResult is the structured result of a news search.
type NewsSearchResult struct {
	Success  bool      `json:"success"`
	Query    string    `json:"query,omitempty"`
	Articles []Article `json:"articles,omitempty"`
	Total    int       `json:"total,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// NewsSearch returns up to 5 recent articles for a query.
func (c *GNewsClient) NewsSearch(ctx context.Context, query, country string) *NewsSearchResult {
	if c.apiKey == "" {
		return &NewsSearchResult{Error: "GNews API key not configured"}
	}
	if country == "" {
		country = "us"
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("token", c.apiKey)
	params.Set("lang", "en")
	params.Set("country", country)
	params.Set("max", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v4/search?"+params.Encode(), nil)
	if err != nil {
		return &NewsSearchResult{Error: fmt.Sprintf("failed to create request: %v", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NewsSearchResult{Error: fmt.Sprintf("failed to send request: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NewsSearchResult{Error: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return &NewsSearchResult{Error: fmt.Sprintf("news API error [%d]", resp.StatusCode)}
	}

	var data struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(respBody, &data); err != nil {
		return &NewsSearchResult{Error: fmt.Sprintf("failed to unmarshal response: %v", err)}
	}

	articles := make([]Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Source:      a.Source.Name,
		})
	}

	return &NewsSearchResult{
		Success:  true,
		Query:    query,
		Articles: articles,
		Total:    len(articles),
	}
}
