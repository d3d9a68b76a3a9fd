package service

import (
	"strings"
	"testing"

	"github.com/cantorix/aide/domain"
	"github.com/cantorix/aide/tools"
)

func TestStripReasoning(t *testing.T) {
	cases := map[string]string{
		"<think>plan</think>answer":             "answer",
		"answer":                                "answer",
		"  <think>a</think> mid <think>b</think> ": "mid",
		"": "",
	}
	for in, want := range cases {
		if got := stripReasoning(in); got != want {
			t.Fatalf("stripReasoning(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLeaksToolMarkup(t *testing.T) {
	leaking := []string{
		"[TOOL: web_search]",
		"calling [web_search: rust] now",
		"<tool_call>stuff</tool_call>",
	}
	for _, s := range leaking {
		if !leaksToolMarkup(s) {
			t.Fatalf("expected leak detection for %q", s)
		}
	}

	clean := []string{
		"Here is a summary of the search results.",
		"The web search found 3 items.",
		"",
	}
	for _, s := range clean {
		if leaksToolMarkup(s) {
			t.Fatalf("false leak detection for %q", s)
		}
	}
}

func TestFallbackTextWebSearch(t *testing.T) {
	result := &tools.WebSearchResult{
		Success: true,
		Results: []tools.WebResult{
			{Title: "First", Snippet: "one"},
			{Title: "Second", Snippet: "two"},
		},
		Total: 2,
	}
	text := fallbackText("web_search", result)
	if !strings.Contains(text, "First") || !strings.Contains(text, "Second") {
		t.Fatalf("fallback missing titles: %q", text)
	}

	empty := fallbackText("web_search", &tools.WebSearchResult{Success: true})
	if empty != "No search results found." {
		t.Fatalf("unexpected empty-results text: %q", empty)
	}

	failed := fallbackText("web_search", &tools.WebSearchResult{Error: "no key"})
	if !strings.Contains(failed, "no key") {
		t.Fatalf("error not surfaced: %q", failed)
	}
}

func TestFallbackTextVideosAndNews(t *testing.T) {
	videos := fallbackText("youtube_search", &tools.VideoSearchResult{
		Success: true,
		Videos:  []tools.VideoResult{{Title: "Intro", Channel: "chan"}},
	})
	if !strings.Contains(videos, "Intro") || !strings.Contains(videos, "chan") {
		t.Fatalf("video fallback missing fields: %q", videos)
	}

	news := fallbackText("news_search", &tools.NewsSearchResult{
		Success:  true,
		Articles: []tools.Article{{Title: "Headline", Source: "Wire", PublishedAt: "today"}},
	})
	if !strings.Contains(news, "Headline") || !strings.Contains(news, "Wire") {
		t.Fatalf("news fallback missing fields: %q", news)
	}
}

func TestFallbackTextMemories(t *testing.T) {
	recall := fallbackText("recall_memory", &tools.RecallResult{
		Success:  true,
		Memories: []domain.Memory{{MemoryType: "preference", Content: "likes go"}},
		Total:    1,
	})
	if !strings.Contains(recall, "likes go") {
		t.Fatalf("recall fallback missing content: %q", recall)
	}

	save := fallbackText("save_memory", &tools.SaveResult{Success: true, Message: "Memory saved: preference"})
	if save != "Memory saved: preference" {
		t.Fatalf("unexpected save fallback: %q", save)
	}
}

func TestFallbackTextNoTool(t *testing.T) {
	text := fallbackText("", nil)
	if text == "" {
		t.Fatalf("expected generic sentence")
	}
}
