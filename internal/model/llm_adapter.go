package model

import (
	"context"
	"fmt"

	"github.com/harunnryd/pace/internal/model/contract"
)

// LLMAdapter pins a router to one model name and sampling temperature.
type LLMAdapter struct {
	router      ModelRouter
	modelName   string
	temperature *float32
}

func NewLLMAdapter(router ModelRouter, modelName string, temperature float64) *LLMAdapter {
	t := float32(temperature)
	return &LLMAdapter{
		router:      router,
		modelName:   modelName,
		temperature: &t,
	}
}

func (l *LLMAdapter) ChatComplete(ctx context.Context, messages []contract.Message, tools []contract.ToolDef) (*contract.CompletionResponse, error) {
	req := contract.CompletionRequest{
		Model:       l.modelName,
		Messages:    messages,
		Tools:       tools,
		Temperature: l.temperature,
	}

	resp, err := l.router.Route(ctx, l.modelName, req)
	if err != nil {
		return nil, fmt.Errorf("LLM execution with tools failed: %w", err)
	}

	return resp, nil
}
