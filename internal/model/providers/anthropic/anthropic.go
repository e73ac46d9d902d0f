package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/harunnryd/pace/internal/model/contract"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 1024

type Provider struct {
	client anthropic.Client
}

func New(apiKey string, opts ...option.RequestOption) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	var pendingResults []anthropic.ContentBlockParamUnion

	flushResults := func() {
		if len(pendingResults) == 0 {
			return
		}
		messages = append(messages, anthropic.NewUserMessage(pendingResults...))
		pendingResults = nil
	}

	for _, m := range req.Messages {
		if m.Role == contract.RoleTool {
			pendingResults = append(pendingResults, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false))
			continue
		}
		flushResults()

		switch m.Role {
		case contract.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case contract.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if strings.TrimSpace(m.Content) != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, json.RawMessage(toolInput(tc.Input)), tc.Name))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			}
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	flushResults()

	var tools []anthropic.ToolUnionParam
	for _, t := range req.Tools {
		tool := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{Properties: map[string]interface{}{}},
		}
		if t.Parameters != nil {
			if props, ok := t.Parameters["properties"].(map[string]interface{}); ok {
				tool.InputSchema = anthropic.ToolInputSchemaParam{Properties: props}
			}
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}

	modelName := req.Model
	if modelName == "" {
		modelName = string(anthropic.ModelClaude3_7SonnetLatest)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: defaultMaxTokens,
		System:    system,
		Messages:  messages,
		Tools:     tools,
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*req.Temperature))
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	resp := &contract.CompletionResponse{
		Usage: &contract.Usage{
			PromptTokens:     msg.Usage.InputTokens,
			CompletionTokens: msg.Usage.OutputTokens,
		},
	}
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Content += b.Text
		case anthropic.ToolUseBlock:
			inputJSON, _ := json.Marshal(b.Input)
			resp.ToolCalls = append(resp.ToolCalls, &contract.ToolCall{
				ID:    b.ID,
				Name:  b.Name,
				Input: string(inputJSON),
			})
		}
	}

	return resp, nil
}

func toolInput(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "{}"
	}
	return raw
}
