package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/keychain"
)

// ServerName is the implementation name announced to MCP clients.
const ServerName = "spectrus-desktop"

// KeyInput represents the input for keychain_get and keychain_delete
type KeyInput struct {
	Key string `json:"key"`
}

// SetInput represents the input for keychain_set
type SetInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ToolHandler serves the keychain tools
type ToolHandler struct {
	keychain *keychain.Keychain
	logger   *slog.Logger
}

// NewToolHandler creates a new tool handler
func NewToolHandler(kc *keychain.Keychain, logger *slog.Logger) *ToolHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolHandler{
		keychain: kc,
		logger:   logger.With("component", "bridge"),
	}
}

func keySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Account name under the " + keychain.Namespace + " namespace",
		MinLength:   jsonschema.Ptr(1),
	}
}

// RegisterTools registers all tools with the MCP server
func (h *ToolHandler) RegisterTools(server *mcp.Server) {
	server.AddTool(&mcp.Tool{
		Name:        "keychain_set",
		Description: "Store or overwrite a secret in the OS credential store",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"key", "value"},
			Properties: map[string]*jsonschema.Schema{
				"key": keySchema(),
				"value": {
					Type:        "string",
					Description: "Secret value",
				},
			},
		},
	}, h.setHandler)

	keyOnly := &jsonschema.Schema{
		Type:       "object",
		Required:   []string{"key"},
		Properties: map[string]*jsonschema.Schema{"key": keySchema()},
	}
	server.AddTool(&mcp.Tool{
		Name:        "keychain_get",
		Description: "Read a secret; data.value is null when the key was never set",
		InputSchema: keyOnly,
	}, h.getHandler)

	server.AddTool(&mcp.Tool{
		Name:        "keychain_delete",
		Description: "Delete a secret; deleting an absent key succeeds",
		InputSchema: keyOnly,
	}, h.deleteHandler)
}

func (h *ToolHandler) setHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SetInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return h.errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
	}
	result, _, err := h.Set(ctx, req, input)
	return result, err
}

func (h *ToolHandler) getHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input KeyInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return h.errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
	}
	result, _, err := h.Get(ctx, req, input)
	return result, err
}

func (h *ToolHandler) deleteHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input KeyInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return h.errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
	}
	result, _, err := h.Delete(ctx, req, input)
	return result, err
}

// Set writes a secret
func (h *ToolHandler) Set(ctx context.Context, req *mcp.CallToolRequest, input SetInput) (*mcp.CallToolResult, any, error) {
	if input.Key == "" {
		return h.errorResult(errors.New(errors.CodeCfgInvalid, "key is required", nil)), nil, nil
	}
	if err := h.keychain.Set(input.Key, input.Value); err != nil {
		h.logger.Warn("keychain_set failed", "key", input.Key, "error", err)
		return h.errorResult(err), nil, nil
	}
	return h.okResult(nil), nil, nil
}

// Get reads a secret. Absence is a successful result with a null value.
func (h *ToolHandler) Get(ctx context.Context, req *mcp.CallToolRequest, input KeyInput) (*mcp.CallToolResult, any, error) {
	if input.Key == "" {
		return h.errorResult(errors.New(errors.CodeCfgInvalid, "key is required", nil)), nil, nil
	}
	value, found, err := h.keychain.Get(input.Key)
	if err != nil {
		h.logger.Warn("keychain_get failed", "key", input.Key, "error", err)
		return h.errorResult(err), nil, nil
	}
	var v *string
	if found {
		v = &value
	}
	return h.okResult(map[string]any{"value": v}), nil, nil
}

// Delete removes a secret
func (h *ToolHandler) Delete(ctx context.Context, req *mcp.CallToolRequest, input KeyInput) (*mcp.CallToolResult, any, error) {
	if input.Key == "" {
		return h.errorResult(errors.New(errors.CodeCfgInvalid, "key is required", nil)), nil, nil
	}
	if err := h.keychain.Delete(input.Key); err != nil {
		h.logger.Warn("keychain_delete failed", "key", input.Key, "error", err)
		return h.errorResult(err), nil, nil
	}
	return h.okResult(nil), nil, nil
}

// okResult wraps data in the success envelope; nil data omits the field.
func (h *ToolHandler) okResult(data any) *mcp.CallToolResult {
	output := map[string]any{
		"ok":             true,
		"schema_version": 1,
	}
	if data != nil {
		output["data"] = data
	}
	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return h.errorResult(errors.Wrap(errors.CodeInternal, "failed to marshal result", nil, err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonData)},
		},
	}
}

func (h *ToolHandler) errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: h.formatError(err)},
		},
	}
}

// formatError formats an error as JSON
func (h *ToolHandler) formatError(err error) string {
	var xe *errors.XError
	if err != nil {
		xe = errors.AsOrWrap(err)
	} else {
		xe = errors.New(errors.CodeInternal, "unknown error", nil)
	}
	output := map[string]any{
		"ok":             false,
		"schema_version": 1,
		"error": map[string]any{
			"code":    xe.Code,
			"message": xe.Message,
			"details": xe.Details,
		},
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return string(jsonData)
}

// CreateServer creates a new MCP server exposing the keychain tools.
func CreateServer(version string, kc *keychain.Keychain, logger *slog.Logger) (*mcp.Server, error) {
	if kc == nil {
		return nil, errors.New(errors.CodeInternal, "keychain is nil", nil)
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)

	handler := NewToolHandler(kc, logger)
	handler.RegisterTools(server)

	return server, nil
}
