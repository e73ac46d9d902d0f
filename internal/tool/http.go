package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/harunnryd/pace/internal/apispec"
	"github.com/harunnryd/pace/internal/config"
	"github.com/harunnryd/pace/internal/logger"
)

// ErrToolUnavailable is the only error an HTTP tool returns. Its text is
// handed to the model unchanged, so it carries no detail about the cause.
var ErrToolUnavailable = errors.New("Service is not available. The service may be available in a few moments.")

const (
	defaultHTTPTimeout          = 10 * time.Second
	defaultHTTPMaxResponseBytes = 2 << 20
)

// HTTPOptions tunes the transport of HTTP tools.
type HTTPOptions struct {
	Timeout          time.Duration
	MaxResponseBytes int64
	// NewClient returns the session for a single call. Idle connections are
	// closed once the call returns.
	NewClient func() *http.Client
}

func HTTPOptionsFromConfig(cfg config.HTTPToolConfig) (HTTPOptions, error) {
	timeout, err := config.DurationOrDefault(cfg.Timeout, config.DefaultToolsHTTPTimeout)
	if err != nil {
		return HTTPOptions{}, fmt.Errorf("tools.http.timeout: %w", err)
	}
	return HTTPOptions{
		Timeout:          timeout,
		MaxResponseBytes: cfg.MaxResponseBytes,
	}, nil
}

// HTTPTool calls a remote endpoint with the model's arguments as a JSON body.
type HTTPTool struct {
	spec       apispec.ToolSpec
	parameters map[string]interface{}
	timeout    time.Duration
	maxBytes   int64
	newClient  func() *http.Client
}

func NewHTTPTool(spec apispec.ToolSpec, opts HTTPOptions) *HTTPTool {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultHTTPTimeout
	}
	if opts.MaxResponseBytes <= 0 {
		opts.MaxResponseBytes = defaultHTTPMaxResponseBytes
	}
	if opts.NewClient == nil {
		opts.NewClient = newSession
	}

	return &HTTPTool{
		spec:       spec,
		parameters: ParametersSchema(spec),
		timeout:    opts.Timeout,
		maxBytes:   opts.MaxResponseBytes,
		newClient:  opts.NewClient,
	}
}

func newSession() *http.Client {
	return &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
}

func (t *HTTPTool) Name() string                       { return t.spec.Name }
func (t *HTTPTool) Description() string                { return t.spec.Description }
func (t *HTTPTool) Parameters() map[string]interface{} { return t.parameters }
func (t *HTTPTool) DirectReply() bool                  { return t.spec.Direct }

func (t *HTTPTool) ToolMetadata() ToolMetadata {
	return ToolMetadata{
		Source:   "http",
		Endpoint: t.spec.Endpoint,
		Direct:   t.spec.Direct,
	}
}

func (t *HTTPTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	traceID := logger.GetTraceID(ctx)
	slog.Info("Calling tool", "tool", t.spec.Name, "args", string(input), "trace_id", traceID)

	result, err := t.call(ctx, input)
	if err != nil {
		slog.Warn("Tool endpoint failed", "tool", t.spec.Name, "endpoint", t.spec.Endpoint, "error", err, "trace_id", traceID)
		return nil, ErrToolUnavailable
	}
	return result, nil
}

func (t *HTTPTool) call(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	// Values stay raw so numbers and unknown keys reach the endpoint as sent.
	args := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(input)) > 0 {
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
		if args == nil {
			args = map[string]json.RawMessage{}
		}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.spec.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := t.newClient()
	defer client.CloseIdleConnections()

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if int64(len(payload)) > t.maxBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", t.maxBytes)
	}

	payload = bytes.TrimSpace(payload)
	if !json.Valid(payload) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	return json.RawMessage(payload), nil
}

// RegisterSpecs wraps every spec of specs into an HTTP tool.
func RegisterSpecs(reg *Registry, specs *apispec.Registry, opts HTTPOptions) error {
	for _, spec := range specs.Specs() {
		if err := reg.Register(NewHTTPTool(spec, opts)); err != nil {
			return err
		}
	}
	return nil
}
