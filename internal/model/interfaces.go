package model

import (
	"context"

	"github.com/harunnryd/pace/internal/model/contract"
)

type ModelRouter interface {
	Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	ListModels() []string
}

type Provider interface {
	Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	Name() string
	Type() string
}
