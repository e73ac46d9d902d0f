// Package agent runs the model/tool loop of a single conversation.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/harunnryd/pace/internal/concurrency"
	paceErrors "github.com/harunnryd/pace/internal/errors"
	"github.com/harunnryd/pace/internal/logger"
	"github.com/harunnryd/pace/internal/model/contract"
)

// ErrMaxTurnsExceeded is returned when the model keeps requesting tools past the turn limit.
var ErrMaxTurnsExceeded = fmt.Errorf("agent: max turns exceeded: %w", paceErrors.ErrInternal)

// LLMClient produces the next assistant message for a conversation.
type LLMClient interface {
	ChatComplete(ctx context.Context, messages []contract.Message, tools []contract.ToolDef) (*contract.CompletionResponse, error)
}

// ToolExecutor runs a named tool.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error)
	IsDirect(name string) bool
}

type Agent struct {
	llm      LLMClient
	tools    ToolExecutor
	defs     []contract.ToolDef
	maxTurns int
}

func New(llm LLMClient, tools ToolExecutor, defs []contract.ToolDef, maxTurns int) *Agent {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &Agent{
		llm:      llm,
		tools:    tools,
		defs:     defs,
		maxTurns: maxTurns,
	}
}

// Result is the outcome of one Run.
type Result struct {
	// Messages is the input conversation followed by every generated message.
	Messages []contract.Message
	// Final is the answer shown to the user.
	Final string
	// Direct is set when Final is the raw output of a direct tool.
	Direct bool
	Turns  int
}

func (a *Agent) Run(ctx context.Context, messages []contract.Message) (*Result, error) {
	ctx = logger.EnsureTraceID(ctx)
	traceID := logger.GetTraceID(ctx)

	res := &Result{Messages: append([]contract.Message(nil), messages...)}

	for res.Turns < a.maxTurns {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Turns++

		start := time.Now()
		resp, err := a.llm.ChatComplete(ctx, res.Messages, a.defs)
		if err != nil {
			return res, fmt.Errorf("turn %d: %w", res.Turns, err)
		}
		if resp == nil {
			return res, paceErrors.InvalidModelOutput(fmt.Sprintf("turn %d: empty completion", res.Turns))
		}
		slog.Debug("Model turn complete", "turn", res.Turns, "tool_calls", len(resp.ToolCalls), "duration", time.Since(start), "trace_id", traceID)

		res.Messages = append(res.Messages, contract.Message{
			Role:      contract.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
			Usage:     resp.Usage,
		})

		if len(resp.ToolCalls) == 0 {
			res.Final = resp.Content
			return res, nil
		}

		outputs := a.runTools(ctx, resp.ToolCalls)
		for _, o := range outputs {
			res.Messages = append(res.Messages, o.Message)
		}

		for i, call := range resp.ToolCalls {
			if outputs[i].failed || !a.tools.IsDirect(call.Name) {
				continue
			}
			slog.Info("Direct tool result returned to user", "tool", call.Name, "trace_id", traceID)
			res.Final = outputs[i].Content
			res.Direct = true
			return res, nil
		}
	}

	slog.Warn("Agent stopped at turn limit", "max_turns", a.maxTurns, "trace_id", traceID)
	return res, ErrMaxTurnsExceeded
}

type toolOutput struct {
	contract.Message
	failed bool
}

// runTools executes the calls of one turn concurrently and returns their
// tool messages in call order.
func (a *Agent) runTools(ctx context.Context, calls []*contract.ToolCall) []toolOutput {
	outputs := make([]toolOutput, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		if call == nil {
			call = &contract.ToolCall{}
		}
		id := call.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", i)
		}
		outputs[i].Message = contract.Message{Role: contract.RoleTool, Name: call.Name, ToolCallID: id}

		out := &outputs[i]
		name, input := call.Name, json.RawMessage(call.Input)
		concurrency.SafeGo(ctx, &wg, "tool:"+name, func() {
			result, err := a.tools.Execute(ctx, name, input)
			if err != nil {
				out.Content = toolError(name, err)
				out.failed = true
				return
			}
			out.Content = string(result)
		}, func(r interface{}) {
			out.Content = fmt.Sprintf("Error: tool %s crashed", name)
			out.failed = true
		})
	}

	wg.Wait()
	return outputs
}

// toolError renders a failed call for the model, which decides how to recover.
func toolError(name string, err error) string {
	if strings.TrimSpace(name) == "" {
		return "Error: tool call is missing a name"
	}
	return fmt.Sprintf("Error: %v", err)
}
