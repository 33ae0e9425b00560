package providers

import (
	"github.com/tmc/langchaingo/llms"

	"github.com/rkorrapolu/sye-agent/internal/llm"
)

// toSchemaMessages converts messages to langchaingo MessageContent.
func toSchemaMessages(messages []llm.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		result = append(result, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	return result
}

// fromContentResponse converts a langchaingo response to a CompletionResponse.
func fromContentResponse(resp *llms.ContentResponse, model string) *llm.CompletionResponse {
	out := &llm.CompletionResponse{
		Model:   model,
		Message: llm.Message{Role: llm.RoleAssistant},
	}
	if resp != nil && len(resp.Choices) > 0 {
		out.Message.Content = resp.Choices[0].Content
	}
	return out
}

// buildCallOptions converts request knobs to langchaingo call options.
func buildCallOptions(req llm.CompletionRequest) []llms.CallOption {
	opts := make([]llms.CallOption, 0, 3)
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	return opts
}
