package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

// maxExitCode 是可移植的最大进程退出码。
const maxExitCode = 255

// ProcessControl ends or relaunches the sidecar on behalf of the UI. Both
// calls only record the request and must not block: the host acts on it
// after the tool result has been written.
type ProcessControl interface {
	Exit(code int)
	// Restart returns an error when the process cannot be relaunched.
	Restart() error
}

// ExitInput represents the input for process_exit
type ExitInput struct {
	Code *int `json:"code,omitempty"`
}

// ProcessHandler serves the process tools
type ProcessHandler struct {
	ctl   ProcessControl
	tools *ToolHandler
}

// NewProcessHandler creates a handler driving ctl.
func NewProcessHandler(ctl ProcessControl, logger *slog.Logger) *ProcessHandler {
	return &ProcessHandler{ctl: ctl, tools: NewToolHandler(nil, logger)}
}

// RegisterProcessTools adds process_exit and process_restart to server.
func RegisterProcessTools(server *mcp.Server, ctl ProcessControl, logger *slog.Logger) error {
	if ctl == nil {
		return errors.New(errors.CodeInternal, "process control is nil", nil)
	}
	NewProcessHandler(ctl, logger).RegisterTools(server)
	return nil
}

// RegisterTools registers the process tools with the MCP server
func (h *ProcessHandler) RegisterTools(server *mcp.Server) {
	server.AddTool(&mcp.Tool{
		Name:        "process_exit",
		Description: "Stop the sidecar with the given exit code (default 0)",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"code": {
					Type:        "integer",
					Description: "Process exit code",
					Minimum:     jsonschema.Ptr(0.0),
					Maximum:     jsonschema.Ptr(float64(maxExitCode)),
				},
			},
		},
	}, h.exitHandler)

	server.AddTool(&mcp.Tool{
		Name:        "process_restart",
		Description: "Relaunch the sidecar with its original arguments",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, h.restartHandler)
}

func (h *ProcessHandler) exitHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ExitInput
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
			return h.tools.errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
		}
	}
	result, _, err := h.Exit(ctx, req, input)
	return result, err
}

func (h *ProcessHandler) restartHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, _, err := h.Restart(ctx, req)
	return result, err
}

// Exit requests shutdown. The result is returned before the host stops.
func (h *ProcessHandler) Exit(ctx context.Context, req *mcp.CallToolRequest, input ExitInput) (*mcp.CallToolResult, any, error) {
	code := 0
	if input.Code != nil {
		code = *input.Code
	}
	if code < 0 || code > maxExitCode {
		return h.tools.errorResult(errors.New(errors.CodeCfgInvalid, "exit code out of range",
			map[string]any{"code": code, "max": maxExitCode})), nil, nil
	}
	h.tools.logger.Info("exit requested by UI", "code", code)
	h.ctl.Exit(code)
	return h.tools.okResult(map[string]any{"action": "exit", "code": code}), nil, nil
}

// Restart requests a relaunch.
func (h *ProcessHandler) Restart(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, any, error) {
	if err := h.ctl.Restart(); err != nil {
		h.tools.logger.Warn("process_restart refused", "error", err)
		return h.tools.errorResult(err), nil, nil
	}
	h.tools.logger.Info("restart requested by UI")
	return h.tools.okResult(map[string]any{"action": "restart"}), nil, nil
}
