package tools

import (
	"context"

	"github.com/cantorix/aide/domain"
)

// Catalog tool names.
const (
	ToolWebSearch     = "web_search"
	ToolNewsSearch    = "news_search"
	ToolImageSearch   = "image_search"
	ToolYoutubeSearch = "youtube_search"
	ToolFetchWebpage  = "fetch_webpage"
	ToolCodeExecution = "code_execution"
	ToolSaveMemory    = "save_memory"
	ToolRecallMemory  = "recall_memory"
)

// NewCatalog builds the fixed tool registry wired to the given adapters.
func NewCatalog(serper *SerperClient, gnews *GNewsClient, fetcher *WebpageFetcher, memory *MemoryTools) *Registry {
	r := NewRegistry()

	r.Register(&Tool{
		Name:        ToolWebSearch,
		Description: "Search the web for current information, tutorials, comparisons, or any general knowledge",
		Category:    domain.CategoryInformation,
		Enabled:     true,
		Parameters: objectSchema(map[string]interface{}{
			"query": stringProp("Search query"),
		}, "query"),
		Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
			return serper.WebSearch(ctx, queryParam(args))
		},
	})

	r.Register(&Tool{
		Name:        ToolNewsSearch,
		Description: "Get latest news articles about a specific topic or event",
		Category:    domain.CategoryInformation,
		Enabled:     true,
		Parameters: objectSchema(map[string]interface{}{
			"query":   stringProp("News search query"),
			"country": stringProp("Country code (us, in, uk, etc.)"),
		}, "query"),
		Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
			return gnews.NewsSearch(ctx, queryParam(args), stringArg(args, "country"))
		},
	})

	r.Register(&Tool{
		Name:        ToolImageSearch,
		Description: "Search for images on a specific topic",
		Category:    domain.CategoryInformation,
		Enabled:     true,
		Parameters: objectSchema(map[string]interface{}{
			"query": stringProp("Image search query"),
		}, "query"),
		Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
			return serper.ImageSearch(ctx, queryParam(args))
		},
	})

	r.Register(&Tool{
		Name:        ToolYoutubeSearch,
		Description: "Search for YouTube videos on a specific topic",
		Category:    domain.CategoryInformation,
		Enabled:     true,
		Parameters: objectSchema(map[string]interface{}{
			"query": stringProp("Video search query"),
		}, "query"),
		Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
			return serper.VideoSearch(ctx, queryParam(args))
		},
	})

	r.Register(&Tool{
		Name:        ToolFetchWebpage,
		Description: "Fetch and extract content from a specific URL",
		Category:    domain.CategoryInformation,
		Enabled:     true,
		Parameters: objectSchema(map[string]interface{}{
			"url": stringProp("URL to fetch"),
		}, "url"),
		Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
			return fetcher.Fetch(ctx, stringArg(args, "url"))
		},
	})

	r.Register(&Tool{
		Name:        ToolCodeExecution,
		Description: "Run a short code snippet (simulated, nothing is actually executed)",
		Category:    domain.CategoryUtility,
		Enabled:     true,
		Parameters: objectSchema(map[string]interface{}{
			"code":     stringProp("Code to run"),
			"language": stringProp("Language of the snippet"),
		}, "code"),
		Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
			return ExecuteCode(stringArg(args, "code"), stringArg(args, "language"))
		},
	})

	r.Register(&Tool{
		Name:        ToolSaveMemory,
		Description: "Save important information to long-term memory for future recall",
		Category:    domain.CategoryMemory,
		Enabled:     true,
		Parameters: objectSchema(map[string]interface{}{
			"memory_type": stringProp("Type of memory (preference, fact, context)"),
			"content":     stringProp("Information to remember"),
		}, "memory_type", "content"),
		Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
			return memory.Save(ctx, stringArg(args, "session_id"), stringArg(args, "memory_type"), stringArg(args, "content"))
		},
	})

	r.Register(&Tool{
		Name:        ToolRecallMemory,
		Description: "Recall previously saved information from long-term memory",
		Category:    domain.CategoryMemory,
		Enabled:     true,
		Parameters: objectSchema(map[string]interface{}{
			"memory_type": stringProp("Type of memory to recall (optional)"),
		}),
		Handler: func(ctx context.Context, args map[string]interface{}) interface{} {
			return memory.Recall(ctx, stringArg(args, "session_id"), stringArg(args, "memory_type"))
		},
	})

	return r
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}
