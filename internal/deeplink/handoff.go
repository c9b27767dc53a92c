package deeplink

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"time"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

const (
	// handoffTimeout bounds one hand-off connection, both sides.
	handoffTimeout = 5 * time.Second
	// maxMessageSize caps a single activation message.
	maxMessageSize = 64 << 10
)

// activationMessage 是第二个进程发给正在运行实例的消息。
type activationMessage struct {
	ID   string   `json:"id"`
	URLs []string `json:"urls"`
}

// ack 是运行实例的应答。
type ack struct {
	OK        bool   `json:"ok"`
	Delivered int    `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// Forward delivers urls to the instance listening on endpoint as a single
// activation. It returns how many notifications the instance delivered to
// the UI. If nobody is listening it fails with SPECTRUS_DEEPLINK_UNAVAILABLE.
func Forward(ctx context.Context, endpoint string, urls []string) (int, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint()
	}
	dctx, cancel := context.WithTimeout(ctx, handoffTimeout)
	defer cancel()

	conn, err := dial(dctx, endpoint)
	if err != nil {
		return 0, errors.Wrap(errors.CodeDeepLinkUnavailable, "no running instance to forward deep link to",
			map[string]any{"endpoint": endpoint}, err)
	}
	defer conn.Close()
	if dl, ok := dctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	act := NewActivation(urls)
	if err := json.NewEncoder(conn).Encode(activationMessage{ID: act.ID, URLs: act.URLs}); err != nil {
		return 0, errors.Wrap(errors.CodeDeepLinkUnavailable, "failed to send activation", map[string]any{"endpoint": endpoint}, err)
	}

	var reply ack
	if err := json.NewDecoder(io.LimitReader(conn, maxMessageSize)).Decode(&reply); err != nil {
		return 0, errors.Wrap(errors.CodeDeepLinkUnavailable, "no acknowledgement from running instance", map[string]any{"endpoint": endpoint}, err)
	}
	if !reply.OK {
		return 0, errors.New(errors.CodeDeepLinkInvalid, "running instance rejected activation",
			map[string]any{"endpoint": endpoint, "reason": reply.Error})
	}
	return reply.Delivered, nil
}

// handle serves one hand-off connection.
func (in *Instance) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(handoffTimeout))

	var msg activationMessage
	if err := json.NewDecoder(io.LimitReader(conn, maxMessageSize)).Decode(&msg); err != nil {
		if stderrors.Is(err, io.EOF) {
			// 另一个进程只是在探测端点是否有人监听
			in.logger.Debug("endpoint probe", "endpoint", in.endpoint)
			return
		}
		in.logger.Warn("invalid activation message", "error", err)
		in.reply(conn, ack{Error: "invalid activation message"})
		return
	}

	act := NewActivation(nil)
	if msg.ID != "" {
		act.ID = msg.ID
	}
	for _, u := range msg.URLs {
		if xe := ValidateURL(in.scheme, u); xe != nil {
			in.logger.Warn("ignoring deep link", "activation", act.ID, "url", u, "error", xe)
			continue
		}
		act.URLs = append(act.URLs, u)
	}
	if len(act.URLs) == 0 {
		in.reply(conn, ack{Error: "no valid " + in.scheme + " URLs in activation"})
		return
	}

	in.logger.Info("activation received", "activation", act.ID, "urls", len(act.URLs))
	n := in.relay.Dispatch(ctx, act)
	in.reply(conn, ack{OK: true, Delivered: n})
}

func (in *Instance) reply(conn net.Conn, a ack) {
	if err := json.NewEncoder(conn).Encode(a); err != nil {
		in.logger.Debug("activation ack not sent", "error", err)
	}
}
