package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunnryd/pace/internal/agent"
	"github.com/harunnryd/pace/internal/apispec"
	"github.com/harunnryd/pace/internal/config"
	paceErrors "github.com/harunnryd/pace/internal/errors"
	"github.com/harunnryd/pace/internal/gpsserver"
	"github.com/harunnryd/pace/internal/model/contract"
	"github.com/harunnryd/pace/internal/tool"
	"github.com/harunnryd/pace/internal/usage"
)

// scriptedLLM replays canned completions and records what it was sent.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []*contract.CompletionResponse
	seen    [][]contract.Message
	tools   []contract.ToolDef
}

func (s *scriptedLLM) ChatComplete(ctx context.Context, messages []contract.Message, tools []contract.ToolDef) (*contract.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen = append(s.seen, append([]contract.Message(nil), messages...))
	s.tools = tools
	if len(s.replies) == 0 {
		return nil, errors.New("script exhausted")
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	return next, nil
}

func newGPSAgent(t *testing.T, llm agent.LLMClient, endpoint string) *agent.Agent {
	t.Helper()

	specs := apispec.NewRegistry()
	for _, spec := range apispec.Builtins(endpoint) {
		require.NoError(t, specs.Add(spec))
	}

	reg := tool.NewRegistry()
	require.NoError(t, tool.RegisterSpecs(reg, specs, tool.HTTPOptions{}))

	return agent.New(llm, tool.NewRunner(reg), reg.Definitions(), config.DefaultAgentMaxTurns)
}

func TestDriverAsk_EndToEnd(t *testing.T) {
	gps := httptest.NewServer(gpsserver.New(config.ServerConfig{}, config.GPSConfig{
		Latitude:  config.DefaultGPSLatitude,
		Longitude: config.DefaultGPSLongitude,
	}).Handler())
	defer gps.Close()

	llm := &scriptedLLM{replies: []*contract.CompletionResponse{
		{
			ToolCalls: []*contract.ToolCall{{ID: "call_1", Name: "get_gps_position", Input: `{"country":"TH"}`}},
			Usage:     &contract.Usage{PromptTokens: 120, CompletionTokens: 18},
		},
		{
			Content: "Thailand is located at latitude 37.7749 and longitude -122.4194.",
			Usage:   &contract.Usage{PromptTokens: 165, CompletionTokens: 21},
		},
	}}

	var out bytes.Buffer
	report, err := NewDriver(newGPSAgent(t, llm, gps.URL+gpsserver.GPSPath), "", &out).Ask(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, report.Messages, 5)
	assert.Equal(t, config.DefaultAgentSystemPrompt, report.Messages[0].Content)
	assert.Equal(t, config.DefaultAgentQuestion, report.Messages[1].Content)
	assert.JSONEq(t, `{"latitude":37.7749,"longitude":-122.4194}`, report.Messages[3].Content)
	assert.Equal(t, "Thailand is located at latitude 37.7749 and longitude -122.4194.", report.Final)
	assert.NotEmpty(t, report.TraceID)

	assert.Equal(t, usage.Sum(report.Messages), report.Total)
	assert.Equal(t, usage.TokenStats{Input: 285, Output: 39}, report.Total)

	require.Len(t, llm.tools, 1)
	assert.Equal(t, "get_gps_position", llm.tools[0].Name)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 8)

	var raw map[string][]contract.Message
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &raw))
	assert.Len(t, raw["messages"], 5)

	assert.Equal(t, "system> "+config.DefaultAgentSystemPrompt, lines[1])
	assert.Equal(t, "human> "+config.DefaultAgentQuestion, lines[2])
	assert.Equal(t, "ai> ", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "tool> "))
	assert.Equal(t, "ai> Thailand is located at latitude 37.7749 and longitude -122.4194.", lines[5])
	assert.Equal(t, "----", lines[6])
	assert.Equal(t, "Used tokens: TokenStats(input=285, output=39, total=324)", lines[7])
}

func TestDriverAsk_ToolDownStillReportsUsage(t *testing.T) {
	gps := httptest.NewServer(nil)
	endpoint := gps.URL + gpsserver.GPSPath
	gps.Close()

	llm := &scriptedLLM{replies: []*contract.CompletionResponse{
		{
			ToolCalls: []*contract.ToolCall{{ID: "call_1", Name: "get_gps_position", Input: `{"country":"THA"}`}},
			Usage:     &contract.Usage{PromptTokens: 100, CompletionTokens: 10},
		},
		{
			Content: "Sorry, I could not look that up right now.",
			Usage:   &contract.Usage{PromptTokens: 130, CompletionTokens: 12},
		},
	}}

	var out bytes.Buffer
	report, err := NewDriver(newGPSAgent(t, llm, endpoint), "be brief", &out).Ask(context.Background(), "Where is Thailand?")
	require.NoError(t, err)

	assert.Equal(t, "be brief", report.Messages[0].Content)
	assert.Contains(t, report.Messages[3].Content, tool.ErrToolUnavailable.Error())
	assert.Equal(t, usage.TokenStats{Input: 230, Output: 22}, report.Total)
	assert.Contains(t, out.String(), "Used tokens: TokenStats(input=230, output=22, total=252)")

	require.Len(t, llm.seen, 2)
	assert.Equal(t, contract.RoleTool, llm.seen[1][3].Role)
}

type failingRunner struct {
	res *agent.Result
	err error
}

func (f failingRunner) Run(ctx context.Context, messages []contract.Message) (*agent.Result, error) {
	return f.res, f.err
}

func TestDriverAsk_AgentErrors(t *testing.T) {
	boom := errors.New("model unreachable")

	report, err := NewDriver(failingRunner{err: boom}, "", &bytes.Buffer{}).Ask(context.Background(), "q")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, report)

	partial := &agent.Result{Messages: []contract.Message{
		{Role: contract.RoleUser, Content: "q"},
		{Role: contract.RoleAssistant, Usage: &contract.Usage{PromptTokens: 3, CompletionTokens: 1}},
	}}
	var out bytes.Buffer
	report, err = NewDriver(failingRunner{res: partial, err: agent.ErrMaxTurnsExceeded}, "", &out).Ask(context.Background(), "q")
	assert.ErrorIs(t, err, agent.ErrMaxTurnsExceeded)
	require.NotNil(t, report)
	assert.Equal(t, usage.TokenStats{Input: 3, Output: 1}, report.Total)
	assert.Contains(t, out.String(), "Used tokens: TokenStats(input=3, output=1, total=4)")
}

func TestDriverAsk_LogsFailureCategory(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := NewDriver(failingRunner{err: paceErrors.Transient("provider request failed: 503")}, "", &bytes.Buffer{}).
		Ask(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, paceErrors.IsRetryable(err))
	assert.Contains(t, logs.String(), "Conversation failed")
	assert.Contains(t, logs.String(), "category=ErrTransient")
	assert.Contains(t, logs.String(), "retryable=true")

	logs.Reset()
	_, err = NewDriver(failingRunner{err: context.Canceled}, "", &bytes.Buffer{}).Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, logs.String(), "retryable=false")
}

func TestWriteTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.json")
	report := &Report{
		TraceID:  "01TEST",
		Messages: []contract.Message{{Role: contract.RoleUser, Content: "hi"}},
		Replies:  []usage.AiReply{{Type: usage.TypeHuman, Content: "hi"}},
		Total:    usage.TokenStats{Input: 1, Output: 2},
		Final:    "hello",
	}

	require.NoError(t, WriteTranscript(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *report, got)

	assert.Error(t, WriteTranscript("  ", report))
}
