package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cantorix/aide/tools"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// stripReasoning removes literal reasoning-trace delimiters some models leak
// into their final text.
func stripReasoning(s string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
}

// leakSentinels are literal tool-call markup fragments. Any of them in the
// model's final text means the summary is unusable and the deterministic
// fallback takes over.
var leakSentinels = []string{
	"[TOOL:",
	"<tool_call>",
	"</tool_call>",
	"[web_search:",
	"[news_search:",
	"[image_search:",
	"[youtube_search:",
	"[fetch_webpage:",
	"[code_execution:",
	"[save_memory:",
	"[recall_memory:",
}

// leaksToolMarkup reports whether the text contains leaked tool-call markup.
func leaksToolMarkup(s string) bool {
	for _, sentinel := range leakSentinels {
		if strings.Contains(s, sentinel) {
			return true
		}
	}
	return false
}

// fallbackText synthesizes a reply from the structured tool result when the
// model failed to produce a usable summary.
func fallbackText(toolUsed string, result interface{}) string {
	if toolUsed == "" || result == nil {
		return "I encountered an issue processing your request. Could you try rephrasing it?"
	}

	switch r := result.(type) {
	case *tools.WebSearchResult:
		if !r.Success {
			return errorSentence(r.Error)
		}
		if len(r.Results) == 0 {
			return "No search results found."
		}
		var b strings.Builder
		b.WriteString("Here's what I found:\n\n")
		for i, res := range r.Results {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "• %s\n  %s\n\n", res.Title, res.Snippet)
		}
		return strings.TrimSpace(b.String())

	case *tools.NewsSearchResult:
		if !r.Success {
			return errorSentence(r.Error)
		}
		if len(r.Articles) == 0 {
			return "No recent news articles found for your query."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "I found %d recent news articles:\n\n", len(r.Articles))
		for i, a := range r.Articles {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "• %s\n  Published: %s\n  Source: %s\n\n", a.Title, a.PublishedAt, a.Source)
		}
		return strings.TrimSpace(b.String())

	case *tools.ImageSearchResult:
		if !r.Success {
			return errorSentence(r.Error)
		}
		return fmt.Sprintf("I found %d images matching your search.", len(r.Images))

	case *tools.VideoSearchResult:
		if !r.Success {
			return errorSentence(r.Error)
		}
		if len(r.Videos) == 0 {
			return "I couldn't find any videos matching your search."
		}
		var b strings.Builder
		b.WriteString("Here are some YouTube videos I found:\n\n")
		for i, v := range r.Videos {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "• %s by %s\n", v.Title, v.Channel)
		}
		return strings.TrimSpace(b.String())

	case *tools.FetchResult:
		if !r.Success {
			return errorSentence(r.Error)
		}
		excerpt := r.Content
		if len(excerpt) > 300 {
			excerpt = excerpt[:300] + "..."
		}
		return fmt.Sprintf("I fetched %s (status %d). Here's how it starts:\n\n%s", r.URL, r.Status, excerpt)

	case *tools.SaveResult:
		if !r.Success {
			return errorSentence(r.Error)
		}
		return r.Message

	case *tools.RecallResult:
		if !r.Success {
			return errorSentence(r.Error)
		}
		if len(r.Memories) == 0 {
			return "I don't have any saved memories for this conversation yet."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "I remember %d things:\n\n", len(r.Memories))
		for _, m := range r.Memories {
			fmt.Fprintf(&b, "• [%s] %s\n", m.MemoryType, m.Content)
		}
		return strings.TrimSpace(b.String())

	case *tools.CodeExecutionResult:
		return r.Message

	case *tools.ErrorResult:
		return errorSentence(r.Error)
	}

	return "I've completed your request successfully."
}

func errorSentence(errText string) string {
	if errText == "" {
		errText = "unknown error"
	}
	return fmt.Sprintf("I encountered an error: %s", errText)
}
