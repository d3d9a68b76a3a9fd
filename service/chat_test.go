package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cantorix/aide/config"
	"github.com/cantorix/aide/domain"
	"github.com/cantorix/aide/llm"
	"github.com/cantorix/aide/policy"
	"github.com/cantorix/aide/session"
	"github.com/cantorix/aide/store"
	"github.com/cantorix/aide/tools"
)

type testEnv struct {
	svc   *Service
	store *store.SQLiteStore
}

// newTestEnv wires a service against a scripted LLM endpoint and optional
// scripted Serper endpoint.
func newTestEnv(t *testing.T, llmURL, serperURL, serperKey string) *testEnv {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	serper := tools.NewSerperClient(serperURL, serperKey, time.Second)
	gnews := tools.NewGNewsClient("http://127.0.0.1:0", "", time.Second)
	fetcher := tools.NewWebpageFetcher(time.Second)
	memory := tools.NewMemoryTools(st)
	registry := tools.NewCatalog(serper, gnews, fetcher, memory)

	llmClient := llm.NewClient(llmURL, "test-key", "test-model", time.Second)
	cache := session.NewCache(session.DefaultCapacity)
	cfg := &config.Config{SessionCacheSize: session.DefaultCapacity}

	return &testEnv{
		svc:   New(st, llmClient, registry, policyEngine, cache, cfg),
		store: st,
	}
}

// scriptedLLM answers the first (tool-bearing) request with first and the
// follow-up summary request with second.
func scriptedLLM(t *testing.T, first, second llm.ChatMessage) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode llm request: %v", err)
		}
		msg := second
		if len(req.Tools) > 0 {
			msg = first
		}
		json.NewEncoder(w).Encode(llm.ChatCompletionResponse{
			Model:   "test-model",
			Choices: []llm.Choice{{Message: &msg}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func toolCallMessage(name, arguments string) llm.ChatMessage {
	return llm.ChatMessage{
		Role: domain.RoleAssistant,
		ToolCalls: []llm.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: llm.ToolCallFunction{
				Name:      name,
				Arguments: arguments,
			},
		}},
	}
}

func serperServer(t *testing.T, titles ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		organic := make([]map[string]string, 0, len(titles))
		for _, title := range titles {
			organic = append(organic, map[string]string{
				"title":   title,
				"snippet": "snippet for " + title,
				"link":    "https://example.com",
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"organic": organic})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestChatPlainReply(t *testing.T) {
	reply := llm.ChatMessage{Role: domain.RoleAssistant, Content: "Hello! How can I help?"}
	llmSrv := scriptedLLM(t, reply, llm.ChatMessage{})
	env := newTestEnv(t, llmSrv.URL, "http://127.0.0.1:0", "")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Response != "Hello! How can I help?" {
		t.Fatalf("unexpected response %q", resp.Response)
	}
	if resp.ToolUsed != "" || resp.ToolResult != nil {
		t.Fatalf("expected no tool use, got %+v", resp)
	}

	history := env.svc.Context(context.Background(), resp.SessionID)
	if len(history) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(history))
	}
	if history[0].Role != domain.RoleUser || history[1].Role != domain.RoleAssistant {
		t.Fatalf("unexpected history roles: %+v", history)
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	reply := llm.ChatMessage{Role: domain.RoleAssistant, Content: "ok"}
	llmSrv := scriptedLLM(t, reply, llm.ChatMessage{})
	env := newTestEnv(t, llmSrv.URL, "http://127.0.0.1:0", "")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
}

func TestChatWebSearchFallbackSummary(t *testing.T) {
	serperSrv := serperServer(t, "Rust overview", "Go overview")
	first := toolCallMessage("web_search", `{"query":"rust vs go"}`)
	// Empty summary forces the deterministic fallback.
	llmSrv := scriptedLLM(t, first, llm.ChatMessage{Role: domain.RoleAssistant, Content: ""})
	env := newTestEnv(t, llmSrv.URL, serperSrv.URL, "serper-key")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "compare rust and go"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.ToolUsed != "web_search" {
		t.Fatalf("expected web_search, got %q", resp.ToolUsed)
	}
	if !strings.Contains(resp.Response, "Rust overview") || !strings.Contains(resp.Response, "Go overview") {
		t.Fatalf("fallback summary missing result titles: %q", resp.Response)
	}

	result, ok := resp.ToolResult.(*tools.WebSearchResult)
	if !ok {
		t.Fatalf("unexpected tool result type %T", resp.ToolResult)
	}
	if !result.Success || result.Total != 2 {
		t.Fatalf("unexpected tool result: %+v", result)
	}
}

func TestChatUsesModelSummaryWhenClean(t *testing.T) {
	serperSrv := serperServer(t, "Rust overview")
	first := toolCallMessage("web_search", `{"query":"rust"}`)
	second := llm.ChatMessage{Role: domain.RoleAssistant, Content: "Rust is a systems language."}
	llmSrv := scriptedLLM(t, first, second)
	env := newTestEnv(t, llmSrv.URL, serperSrv.URL, "serper-key")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "what is rust"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Response != "Rust is a systems language." {
		t.Fatalf("expected model summary, got %q", resp.Response)
	}
}

func TestChatLeakedMarkupFallsBack(t *testing.T) {
	serperSrv := serperServer(t, "Rust overview")
	first := toolCallMessage("web_search", `{"query":"rust"}`)
	second := llm.ChatMessage{Role: domain.RoleAssistant, Content: `[web_search: rust]`}
	llmSrv := scriptedLLM(t, first, second)
	env := newTestEnv(t, llmSrv.URL, serperSrv.URL, "serper-key")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "what is rust"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !strings.Contains(resp.Response, "Rust overview") {
		t.Fatalf("expected fallback summary, got %q", resp.Response)
	}
}

func TestChatStripsReasoningTrace(t *testing.T) {
	serperSrv := serperServer(t, "Rust overview")
	first := toolCallMessage("web_search", `{"query":"rust"}`)
	second := llm.ChatMessage{Role: domain.RoleAssistant, Content: "<think>secret plan</think>Rust is great."}
	llmSrv := scriptedLLM(t, first, second)
	env := newTestEnv(t, llmSrv.URL, serperSrv.URL, "serper-key")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "what is rust"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Response != "Rust is great." {
		t.Fatalf("reasoning trace not stripped: %q", resp.Response)
	}
}

func TestChatToolFailureStillAnswers(t *testing.T) {
	// No Serper key: the adapter returns a structured error, the turn
	// continues and the user gets a sentence, not an HTTP failure.
	first := toolCallMessage("web_search", `{"query":"rust"}`)
	llmSrv := scriptedLLM(t, first, llm.ChatMessage{Role: domain.RoleAssistant, Content: ""})
	env := newTestEnv(t, llmSrv.URL, "http://127.0.0.1:0", "")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "what is rust"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !strings.Contains(resp.Response, "I encountered an error") {
		t.Fatalf("expected apology sentence, got %q", resp.Response)
	}
	if resp.ToolUsed != "web_search" {
		t.Fatalf("expected web_search recorded, got %q", resp.ToolUsed)
	}
}

func TestChatUnknownToolNoCrash(t *testing.T) {
	first := toolCallMessage("teleport", `{"destination":"mars"}`)
	llmSrv := scriptedLLM(t, first, llm.ChatMessage{})
	env := newTestEnv(t, llmSrv.URL, "http://127.0.0.1:0", "")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "beam me up"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.ToolUsed != "" || resp.ToolResult != nil {
		t.Fatalf("nothing should have executed: %+v", resp)
	}
	if resp.Response == "" {
		t.Fatalf("expected a user-facing completion")
	}
}

func TestChatMemoryToolInjectsSessionID(t *testing.T) {
	first := toolCallMessage("save_memory", `{"memory_type":"preference","content":"likes go"}`)
	second := llm.ChatMessage{Role: domain.RoleAssistant, Content: "Saved your preference!"}
	llmSrv := scriptedLLM(t, first, second)
	env := newTestEnv(t, llmSrv.URL, "http://127.0.0.1:0", "")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "remember that I like go"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.ToolUsed != "save_memory" {
		t.Fatalf("expected save_memory, got %q", resp.ToolUsed)
	}

	mems, err := env.store.RecallMemories(context.Background(), resp.SessionID, "", 10)
	if err != nil {
		t.Fatalf("RecallMemories failed: %v", err)
	}
	if len(mems) != 1 || mems[0].Content != "likes go" {
		t.Fatalf("memory not saved under session id: %+v", mems)
	}
}

func TestChatPolicyBlockedTool(t *testing.T) {
	first := toolCallMessage("code_execution", `{"language":"bash","code":"rm -rf /"}`)
	llmSrv := scriptedLLM(t, first, llm.ChatMessage{Role: domain.RoleAssistant, Content: ""})
	env := newTestEnv(t, llmSrv.URL, "http://127.0.0.1:0", "")

	resp, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "wipe the disk"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	result, ok := resp.ToolResult.(*tools.ErrorResult)
	if !ok {
		t.Fatalf("unexpected tool result type %T", resp.ToolResult)
	}
	if result.Success || !strings.Contains(result.Error, "blocked by policy") {
		t.Fatalf("expected policy block, got %+v", result)
	}
	if !strings.Contains(resp.Response, "blocked by policy") {
		t.Fatalf("expected block surfaced to user, got %q", resp.Response)
	}
}

func TestChatModelFailurePersistsUserMessage(t *testing.T) {
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(llmSrv.Close)
	env := newTestEnv(t, llmSrv.URL, "http://127.0.0.1:0", "")

	_, err := env.svc.Chat(context.Background(), &domain.ChatRequest{Message: "hi", SessionID: "s1"})
	if err == nil {
		t.Fatalf("expected model failure to surface")
	}

	history := env.svc.Context(context.Background(), "s1")
	if len(history) != 1 || history[0].Role != domain.RoleUser {
		t.Fatalf("user message should have been persisted: %+v", history)
	}
}

func TestChatAfterClearHistoryStartsEmpty(t *testing.T) {
	reply := llm.ChatMessage{Role: domain.RoleAssistant, Content: "ok"}

	var promptSizes []int
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode llm request: %v", err)
		}
		promptSizes = append(promptSizes, len(req.Messages))
		msg := reply
		json.NewEncoder(w).Encode(llm.ChatCompletionResponse{Choices: []llm.Choice{{Message: &msg}}})
	}))
	t.Cleanup(llmSrv.Close)
	env := newTestEnv(t, llmSrv.URL, "http://127.0.0.1:0", "")

	ctx := context.Background()
	if _, err := env.svc.Chat(ctx, &domain.ChatRequest{Message: "first", SessionID: "s1"}); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if err := env.svc.ClearHistory(ctx, "s1"); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}

	if _, err := env.svc.Chat(ctx, &domain.ChatRequest{Message: "second", SessionID: "s1"}); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	// Both turns: system prompt + user message only, no residual history.
	if len(promptSizes) != 2 || promptSizes[0] != 2 || promptSizes[1] != 2 {
		t.Fatalf("unexpected prompt sizes: %v", promptSizes)
	}
}
