package mcp

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clk-66/spectrus-desktop/internal/deeplink"
)

const methodSetLevel = "logging/setLevel"

// mcpLevels maps MCP logging levels onto the SDK's slog scale.
var mcpLevels = map[mcp.LoggingLevel]slog.Level{
	"debug":     mcp.LevelDebug,
	"info":      mcp.LevelInfo,
	"notice":    mcp.LevelNotice,
	"warning":   mcp.LevelWarning,
	"error":     mcp.LevelError,
	"critical":  mcp.LevelCritical,
	"alert":     mcp.LevelAlert,
	"emergency": mcp.LevelEmergency,
}

// SessionEmitter delivers deep-link events to connected UI sessions as
// notifications/message log notifications, logger set to the event name and
// data set to the payload.
//
// A session receives events once it has called logging/setLevel. Events go
// out at info, or at the session's own threshold when that is stricter, so a
// subscribed session never filters them. NewSessionEmitter must run before
// sessions connect so that their level is seen.
type SessionEmitter struct {
	server *mcp.Server

	mu     sync.Mutex
	levels map[*mcp.ServerSession]*subscription
}

type subscription struct {
	level mcp.LoggingLevel
	seen  bool // 已在某次 Sessions() 快照中出现过
}

// NewSessionEmitter returns an emitter broadcasting through server.
func NewSessionEmitter(server *mcp.Server) *SessionEmitter {
	e := &SessionEmitter{server: server, levels: make(map[*mcp.ServerSession]*subscription)}
	server.AddReceivingMiddleware(e.trackLevel)
	return e
}

// trackLevel 记录每个会话通过 logging/setLevel 设置的级别。
func (e *SessionEmitter) trackLevel(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		res, err := next(ctx, method, req)
		if err != nil || method != methodSetLevel {
			return res, err
		}
		ss, ok := req.GetSession().(*mcp.ServerSession)
		params, pok := req.GetParams().(*mcp.SetLoggingLevelParams)
		if ok && pok && params != nil {
			e.mu.Lock()
			if sub, exists := e.levels[ss]; exists {
				sub.level = params.Level
			} else {
				e.levels[ss] = &subscription{level: params.Level}
			}
			e.mu.Unlock()
		}
		return res, err
	}
}

// sendLevel 返回 session 一定会接收的级别；未订阅时 ok=false。
func (e *SessionEmitter) sendLevel(ss *mcp.ServerSession) (mcp.LoggingLevel, bool) {
	e.mu.Lock()
	sub, ok := e.levels[ss]
	var threshold mcp.LoggingLevel
	if ok {
		sub.seen = true
		threshold = sub.level
	}
	e.mu.Unlock()
	if !ok {
		return "", false
	}
	if rank, known := mcpLevels[threshold]; known && rank > mcp.LevelInfo {
		return threshold, true
	}
	return "info", true
}

// Emit implements deeplink.Emitter. It returns deeplink.ErrNoListener when no
// connected session has subscribed, and an error if every send failed.
func (e *SessionEmitter) Emit(ctx context.Context, event, payload string) error {
	var (
		live       = make(map[*mcp.ServerSession]struct{})
		subscribed int
		errs       []error
	)
	for ss := range e.server.Sessions() {
		live[ss] = struct{}{}
		level, ok := e.sendLevel(ss)
		if !ok {
			continue
		}
		subscribed++
		err := ss.Log(ctx, &mcp.LoggingMessageParams{Level: level, Logger: event, Data: payload})
		if err != nil {
			errs = append(errs, err)
		}
	}
	e.prune(live)

	if subscribed == 0 {
		return deeplink.ErrNoListener
	}
	if len(errs) == subscribed {
		return stderrors.Join(errs...)
	}
	return nil
}

// prune 丢弃已断开会话的级别记录。快照之后才订阅的会话尚未 seen，保留。
func (e *SessionEmitter) prune(live map[*mcp.ServerSession]struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for ss, sub := range e.levels {
		if _, ok := live[ss]; !ok && sub.seen {
			delete(e.levels, ss)
		}
	}
}
