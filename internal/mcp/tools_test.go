package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/keychain"
	"github.com/clk-66/spectrus-desktop/internal/log"
)

// brokenStore 模拟后端不可用（例如 Secret Service 未运行）。
type brokenStore struct{ err error }

func (b brokenStore) Get(string) (string, error) { return "", b.err }
func (b brokenStore) Set(string, string) error   { return b.err }
func (b brokenStore) Delete(string) error        { return b.err }

// envelope 是工具返回的 JSON。
type envelope struct {
	OK            bool `json:"ok"`
	SchemaVersion int  `json:"schema_version"`
	Data          struct {
		Value *string `json:"value"`
	} `json:"data"`
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, res *mcp.CallToolResult) envelope {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(text.Text), &env))
	return env
}

// connect 通过内存 transport 连接一个 UI 客户端。
func connect(t *testing.T, server *mcp.Server, opts *mcp.ClientOptions) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	st, ct := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "ui", Version: "test"}, opts)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (*mcp.CallToolResult, envelope) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res, decode(t, res)
}

func TestCreateServer(t *testing.T) {
	server, err := CreateServer("test", keychain.New(keychain.NewMemoryStore()), log.Discard())
	require.NoError(t, err)
	require.NotNil(t, server)

	_, err = CreateServer("test", nil, nil)
	require.Error(t, err)
}

func TestTools_Listed(t *testing.T) {
	server, err := CreateServer("test", keychain.New(keychain.NewMemoryStore()), log.Discard())
	require.NoError(t, err)
	cs := connect(t, server, nil)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"keychain_set", "keychain_get", "keychain_delete"}, names)
}

func TestTools_RoundTrip(t *testing.T) {
	server, err := CreateServer("test", keychain.New(keychain.NewMemoryStore()), log.Discard())
	require.NoError(t, err)
	cs := connect(t, server, nil)

	// never written → null
	res, env := callTool(t, cs, "keychain_get", map[string]any{"key": "session"})
	assert.False(t, res.IsError)
	assert.True(t, env.OK)
	assert.Nil(t, env.Data.Value)

	res, env = callTool(t, cs, "keychain_set", map[string]any{"key": "session", "value": "tok-1"})
	require.False(t, res.IsError)
	assert.True(t, env.OK)

	_, env = callTool(t, cs, "keychain_set", map[string]any{"key": "session", "value": "tok-2"})
	assert.True(t, env.OK)

	_, env = callTool(t, cs, "keychain_get", map[string]any{"key": "session"})
	require.NotNil(t, env.Data.Value)
	assert.Equal(t, "tok-2", *env.Data.Value)

	_, env = callTool(t, cs, "keychain_delete", map[string]any{"key": "session"})
	assert.True(t, env.OK)

	// delete twice succeeds
	res, env = callTool(t, cs, "keychain_delete", map[string]any{"key": "session"})
	assert.False(t, res.IsError)
	assert.True(t, env.OK)

	_, env = callTool(t, cs, "keychain_get", map[string]any{"key": "session"})
	assert.Nil(t, env.Data.Value)
}

func TestTools_EmptyValueIsStored(t *testing.T) {
	server, err := CreateServer("test", keychain.New(keychain.NewMemoryStore()), log.Discard())
	require.NoError(t, err)
	cs := connect(t, server, nil)

	callTool(t, cs, "keychain_set", map[string]any{"key": "k", "value": ""})
	_, env := callTool(t, cs, "keychain_get", map[string]any{"key": "k"})
	require.NotNil(t, env.Data.Value)
	assert.Equal(t, "", *env.Data.Value)
}

func TestTools_BackendFailureCarriesReason(t *testing.T) {
	store := brokenStore{err: stderrors.New("The name org.freedesktop.secrets was not provided by any .service files")}
	server, err := CreateServer("test", keychain.New(store), log.Discard())
	require.NoError(t, err)
	cs := connect(t, server, nil)

	for _, name := range []string{"keychain_get", "keychain_set", "keychain_delete"} {
		t.Run(name, func(t *testing.T) {
			res, env := callTool(t, cs, name, map[string]any{"key": "session", "value": "x"})
			assert.True(t, res.IsError)
			assert.False(t, env.OK)
			assert.Equal(t, string(errors.CodeKeychainFailed), env.Error.Code)
			assert.Equal(t, store.err.Error(), env.Error.Details["reason"])
		})
	}
}

func TestTools_KeyRequired(t *testing.T) {
	h := NewToolHandler(keychain.New(keychain.NewMemoryStore()), log.Discard())

	res, _, err := h.Get(context.Background(), &mcp.CallToolRequest{}, KeyInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, string(errors.CodeCfgInvalid), decode(t, res).Error.Code)

	res, _, err = h.Set(context.Background(), &mcp.CallToolRequest{}, SetInput{Value: "v"})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, _, err = h.Delete(context.Background(), &mcp.CallToolRequest{}, KeyInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestTools_InvalidArguments(t *testing.T) {
	h := NewToolHandler(keychain.New(keychain.NewMemoryStore()), log.Discard())
	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(`{"key": 42}`)}}

	res, err := h.getHandler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "invalid input", decode(t, res).Error.Message)
}

func TestFormatError(t *testing.T) {
	h := NewToolHandler(keychain.New(keychain.NewMemoryStore()), nil)

	out := h.formatError(nil)
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, string(errors.CodeInternal))

	out = h.formatError(errors.New(errors.CodeCfgInvalid, "test error", map[string]any{"key": "value"}))
	assert.Contains(t, out, "SPECTRUS_CFG_INVALID")
	assert.Contains(t, out, "test error")
	assert.Contains(t, out, `"key": "value"`)

	out = h.formatError(stderrors.New("something went wrong"))
	assert.Contains(t, out, `"ok": false`)
	assert.Contains(t, out, "something went wrong")
}
