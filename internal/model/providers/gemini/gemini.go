package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/harunnryd/pace/internal/model/contract"

	"google.golang.org/genai"
)

type Provider struct {
	client *genai.Client
}

// New builds a Gemini provider. A zero timeout keeps the SDK default and an
// empty baseURL keeps the public endpoint.
func New(apiKey, baseURL string, timeout time.Duration) (*Provider, error) {
	client, err := genai.NewClient(context.Background(), clientConfig(apiKey, baseURL, timeout))
	if err != nil {
		return nil, err
	}
	return &Provider{client: client}, nil
}

func clientConfig(apiKey, baseURL string, timeout time.Duration) *genai.ClientConfig {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	cfg.HTTPOptions.BaseURL = baseURL
	if timeout > 0 {
		cfg.HTTPOptions.Timeout = &timeout
	}
	return cfg
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	contents, system := toContents(req.Messages)

	cfg := &genai.GenerateContentConfig{
		Tools:             toTools(req.Tools),
		SystemInstruction: system,
		Temperature:       req.Temperature,
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	return fromResponse(resp), nil
}

func toContents(messages []contract.Message) ([]*genai.Content, *genai.Content) {
	var system *genai.Content
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case contract.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: m.Content})
		case contract.RoleTool:
			var obj map[string]any
			if err := json.Unmarshal([]byte(m.Content), &obj); err != nil {
				obj = map[string]any{"output": m.Content}
			}
			contents = append(contents, &genai.Content{Role: "function", Parts: []*genai.Part{{FunctionResponse: &genai.FunctionResponse{ID: m.ToolCallID, Name: m.Name, Response: obj}}}})
		case contract.RoleAssistant:
			var parts []*genai.Part
			if m.Content != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				var args map[string]any
				_ = json.Unmarshal([]byte(tc.Input), &args)
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args}})
			}
			contents = append(contents, &genai.Content{Role: "model", Parts: parts})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	return contents, system
}

func toTools(defs []contract.ToolDef) []*genai.Tool {
	if len(defs) == 0 {
		return nil
	}
	var decls []*genai.FunctionDeclaration
	for _, t := range defs {
		b, _ := json.Marshal(t.Parameters)
		var schema genai.Schema
		_ = json.Unmarshal(b, &schema)
		decls = append(decls, &genai.FunctionDeclaration{Name: t.Name, Description: t.Description, Parameters: &schema})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func fromResponse(resp *genai.GenerateContentResponse) *contract.CompletionResponse {
	out := &contract.CompletionResponse{}
	if resp == nil {
		return out
	}

	for _, fc := range resp.FunctionCalls() {
		argsJSON, _ := json.Marshal(fc.Args)
		id := fc.ID
		if id == "" {
			id = fc.Name
		}
		out.ToolCalls = append(out.ToolCalls, &contract.ToolCall{ID: id, Name: fc.Name, Input: string(argsJSON)})
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				out.Content += part.Text
			}
		}
	}

	if resp.UsageMetadata != nil {
		out.Usage = &contract.Usage{
			PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return out
}
