package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/cantorix/aide/domain"
	"github.com/cantorix/aide/llm"
	"github.com/cantorix/aide/tools"
)

// promptWindow is the number of history messages sent to the model per turn.
const promptWindow = 20

const systemPrompt = `You are an advanced AI assistant with access to real-time tools and long-term memory.

CONTEXT AWARENESS:
- Remember and reference previous conversations
- Use conversation history to maintain context
- Reference recent messages when the user says "it", "that", "the previous"

TOOL USAGE:
- After using ANY tool, you MUST provide a helpful, natural response
- Summarize search results, news stories, images, videos and fetched pages in plain language
- Confirm what was saved to or recalled from memory

RESPONSE FORMAT:
- Always respond in natural, conversational language
- Never return raw tool names, tool-call markup or JSON
- Never return an empty response
- Be concise but informative and honest about limitations`

// Chat runs one turn of the tool dispatch loop: assemble the bounded message
// window, call the model with the tool catalog, execute at most the first
// requested tool, call the model again for a summary, fall back to a
// deterministic template when the summary is unusable, and persist both
// sides of the turn.
func (s *Service) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	// Single writer per session for the whole turn.
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	history := s.Context(ctx, sessionID)
	if len(history) > promptWindow {
		history = history[len(history)-promptWindow:]
	}

	msgs := make([]llm.ChatMessage, 0, len(history)+2)
	msgs = append(msgs, llm.ChatMessage{Role: domain.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		msgs = append(msgs, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, llm.ChatMessage{Role: domain.RoleUser, Content: req.Message})

	// The user message is persisted even if the rest of the turn fails.
	s.Append(ctx, sessionID, domain.RoleUser, req.Message)

	temperature := 0.7
	first, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Messages:    msgs,
		Temperature: &temperature,
		Tools:       s.registry.Specs(),
		ToolChoice:  "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	if len(first.Choices) == 0 || first.Choices[0].Message == nil {
		return nil, fmt.Errorf("model returned no choices")
	}
	assistant := first.Choices[0].Message

	var toolUsed string
	var toolResult interface{}
	content := assistant.Content

	if len(assistant.ToolCalls) > 0 {
		// Only the first requested tool call is honored; the rest are
		// silently ignored.
		call := assistant.ToolCalls[0]
		name := call.Function.Name

		tool, ok := s.registry.Get(name)
		if !ok {
			// Unknown tool: nothing is executed, the turn continues with
			// whatever text the model produced.
			log.Printf("WARN: model requested unknown tool %q", name)
		} else {
			args := parseToolArgs(name, call.Function.Arguments)
			if tool.Category == domain.CategoryMemory {
				args["session_id"] = sessionID
			}

			toolUsed = name
			toolResult = s.executeTool(ctx, tool, sessionID, args)

			resultJSON, err := json.Marshal(toolResult)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal tool result: %w", err)
			}

			msgs = append(msgs, *assistant)
			msgs = append(msgs, llm.ChatMessage{
				Role:       domain.RoleTool,
				ToolCallID: call.ID,
				Content:    string(resultJSON),
			})

			second, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
				Messages:    msgs,
				Temperature: &temperature,
			})
			if err != nil {
				return nil, fmt.Errorf("summary call failed: %w", err)
			}
			content = ""
			if len(second.Choices) > 0 && second.Choices[0].Message != nil {
				content = second.Choices[0].Message.Content
			}
		}
	}

	content = stripReasoning(content)
	if content == "" || leaksToolMarkup(content) {
		content = fallbackText(toolUsed, toolResult)
	}

	s.Append(ctx, sessionID, domain.RoleAssistant, content)

	return &domain.ChatResponse{
		Response:   content,
		SessionID:  sessionID,
		ToolUsed:   toolUsed,
		ToolResult: toolResult,
	}, nil
}

// executeTool checks the tool policy and runs the handler. Failures collapse
// to a structured error result; the turn always continues.
func (s *Service) executeTool(ctx context.Context, tool *tools.Tool, sessionID string, args map[string]interface{}) interface{} {
	decision, reason, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
		"tool_name":  tool.Name,
		"session_id": sessionID,
		"args":       args,
	})
	if err != nil {
		log.Printf("ERROR: policy evaluation for %s failed: %v", tool.Name, err)
		return &tools.ErrorResult{Error: "tool policy evaluation failed"}
	}
	if decision == "block" {
		if reason == "" {
			reason = "not permitted"
		}
		log.Printf("WARN: tool %s blocked by policy: %s", tool.Name, reason)
		return &tools.ErrorResult{Error: "blocked by policy: " + reason}
	}

	return tool.Handler(ctx, args)
}

// parseToolArgs decodes the model-supplied argument JSON. Malformed arguments
// degrade to an empty argument map.
func parseToolArgs(name, raw string) map[string]interface{} {
	args := map[string]interface{}{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		log.Printf("WARN: bad arguments for tool %s: %v", name, err)
		return map[string]interface{}{}
	}
	return args
}
