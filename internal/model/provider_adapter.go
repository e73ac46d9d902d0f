package model

import (
	"context"

	"github.com/harunnryd/pace/internal/model/contract"
)

type generator interface {
	Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error)
}

// ProviderAdapter binds a provider-specific client to the registry name it was configured under.
type ProviderAdapter struct {
	provider     generator
	name         string
	providerType string
}

func NewProviderAdapter(p generator, name, providerType string) *ProviderAdapter {
	return &ProviderAdapter{provider: p, name: name, providerType: providerType}
}

func (a *ProviderAdapter) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	return a.provider.Generate(ctx, req)
}

func (a *ProviderAdapter) Name() string {
	return a.name
}

func (a *ProviderAdapter) Type() string {
	return a.providerType
}
