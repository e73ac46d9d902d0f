package main

import (
	"fmt"
	"strings"

	"github.com/harunnryd/pace/internal/agent"
	"github.com/harunnryd/pace/internal/apispec"
	"github.com/harunnryd/pace/internal/config"
	"github.com/harunnryd/pace/internal/model"
	"github.com/harunnryd/pace/internal/tool"

	"github.com/spf13/cobra"
)

func loadConfigForCommand(cmd *cobra.Command) (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	loadedCfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}

	return loadedCfg, nil
}

// buildToolRegistry wraps every configured tool spec into an HTTP tool.
func buildToolRegistry(c *config.Config) (*apispec.Registry, *tool.Registry, error) {
	specs, err := apispec.Load(c.Tools)
	if err != nil {
		return nil, nil, fmt.Errorf("load tool specs: %w", err)
	}

	opts, err := tool.HTTPOptionsFromConfig(c.Tools.HTTP)
	if err != nil {
		return nil, nil, err
	}

	reg := tool.NewRegistry()
	if err := tool.RegisterSpecs(reg, specs, opts); err != nil {
		return nil, nil, fmt.Errorf("register tools: %w", err)
	}
	return specs, reg, nil
}

func buildAgent(c *config.Config, modelName string) (*agent.Agent, error) {
	_, reg, err := buildToolRegistry(c)
	if err != nil {
		return nil, err
	}

	router, err := model.NewModelRouter(c.Models)
	if err != nil {
		return nil, fmt.Errorf("initialize model router: %w", err)
	}

	if strings.TrimSpace(modelName) == "" {
		modelName = c.Models.Default
	}
	llm := model.NewLLMAdapter(router, modelName, c.Models.Temperature)

	return agent.New(llm, tool.NewRunner(reg), reg.Definitions(), c.Agent.MaxTurns), nil
}
