// Package conversation runs one question through the agent and reports the
// transcript together with the tokens it used.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/harunnryd/pace/internal/agent"
	"github.com/harunnryd/pace/internal/config"
	paceErrors "github.com/harunnryd/pace/internal/errors"
	"github.com/harunnryd/pace/internal/logger"
	"github.com/harunnryd/pace/internal/model/contract"
	"github.com/harunnryd/pace/internal/usage"
)

// Runner is the agent capability the driver depends on.
type Runner interface {
	Run(ctx context.Context, messages []contract.Message) (*agent.Result, error)
}

// Report is everything one exchange produced.
type Report struct {
	TraceID  string             `json:"trace_id"`
	Messages []contract.Message `json:"messages"`
	Replies  []usage.AiReply    `json:"replies"`
	Total    usage.TokenStats   `json:"total"`
	Final    string             `json:"final"`
	Direct   bool               `json:"direct"`
}

type Driver struct {
	runner       Runner
	out          io.Writer
	systemPrompt string
}

func NewDriver(runner Runner, systemPrompt string, out io.Writer) *Driver {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = config.DefaultAgentSystemPrompt
	}
	if out == nil {
		out = os.Stdout
	}
	return &Driver{
		runner:       runner,
		out:          out,
		systemPrompt: systemPrompt,
	}
}

// Ask sends the system instruction and question, then prints the raw message
// sequence, one transcript line per message and the token total.
// When the agent fails after producing messages they are still reported.
func (d *Driver) Ask(ctx context.Context, question string) (*Report, error) {
	if strings.TrimSpace(question) == "" {
		question = config.DefaultAgentQuestion
	}

	ctx = logger.EnsureTraceID(ctx)
	traceID := logger.GetTraceID(ctx)
	slog.Info("Starting conversation", "question", question, "trace_id", traceID)

	messages := []contract.Message{
		{Role: contract.RoleSystem, Content: d.systemPrompt},
		{Role: contract.RoleUser, Content: question},
	}

	res, runErr := d.runner.Run(ctx, messages)
	if runErr != nil {
		slog.Error("Conversation failed", "error", runErr, "category", paceErrors.Category(runErr),
			"retryable", paceErrors.IsRetryable(runErr), "trace_id", traceID)
	}
	if res == nil {
		return nil, fmt.Errorf("run conversation: %w", runErr)
	}

	raw, err := json.Marshal(map[string]interface{}{"messages": res.Messages})
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}
	fmt.Fprintln(d.out, string(raw))

	total, replies := usage.NewAccountant(d.out).Fold(res.Messages)
	fmt.Fprintln(d.out, "----")
	fmt.Fprintf(d.out, "Used tokens: %s\n", total)

	report := &Report{
		TraceID:  traceID,
		Messages: res.Messages,
		Replies:  replies,
		Total:    total,
		Final:    res.Final,
		Direct:   res.Direct,
	}

	slog.Info("Conversation finished", "turns", res.Turns, "total_tokens", total.Total(), "trace_id", traceID)
	if runErr != nil {
		return report, fmt.Errorf("run conversation: %w", runErr)
	}
	return report, nil
}
