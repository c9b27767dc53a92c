package main

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/clk-66/spectrus-desktop/internal/config"
	"github.com/clk-66/spectrus-desktop/internal/deeplink"
	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/keychain"
	mcp_pkg "github.com/clk-66/spectrus-desktop/internal/mcp"
)

// shutdownTimeout bounds the HTTP bridge drain on exit.
const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve [uri]...",
		Short: "Run the deep-link relay and the UI bridge",
		Long: "Run the sidecar: claims the single-instance activation endpoint, registers the\n" +
			"URI scheme and serves the keychain tools and deep-link notifications over MCP.\n" +
			"If another instance is already running, URIs given as arguments are forwarded\n" +
			"to it and serve exits successfully.",
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.transportSet = cmd.Flags().Changed("transport")
			opts.httpAddrSet = cmd.Flags().Changed("http-addr")
			opts.httpAuthTokenSet = cmd.Flags().Changed("http-auth-token")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.transport, "transport", mcp_pkg.TransportStdio, "Bridge transport: stdio|streamable_http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", config.DefaultHTTPAddr, "Streamable HTTP listen address")
	cmd.Flags().StringVar(&opts.httpAuthToken, "http-auth-token", "", "Streamable HTTP auth token (required for streamable_http)")
	cmd.Flags().BoolVar(&opts.noRegister, "no-register", false, "Skip URI scheme registration on startup")
	return cmd
}

type serveOptions struct {
	transport        string
	transportSet     bool
	httpAddr         string
	httpAddrSet      bool
	httpAuthToken    string
	httpAuthTokenSet bool
	noRegister       bool
}

type serveResolved struct {
	transport     string
	httpAddr      string
	httpAuthToken string
}

// runServe runs until ctx is cancelled or the stdio bridge is closed by the UI.
func runServe(ctx context.Context, opts *serveOptions, args []string) error {
	log := logger()
	cfg := GlobalConfig.Resolved.File
	scheme := firstNonEmpty(cfg.DeepLink.Scheme, deeplink.DefaultScheme)

	launchURLs, xe := deeplink.ParseArgs(scheme, args)
	if xe != nil {
		return xe
	}

	vault, xe := openVault("bridge")
	if xe != nil {
		return xe
	}
	defer vault.Close()

	resolved, xe := resolveServeOptions(opts, cfg, vault.Keychain.Store())
	if xe != nil {
		return xe
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server, err := mcp_pkg.CreateServer(version, vault.Keychain, log)
	if err != nil {
		return errors.AsOrWrap(err)
	}
	ctl := &processControl{cancel: cancel, transport: resolved.transport}
	if err := mcp_pkg.RegisterProcessTools(server, ctl, log); err != nil {
		return errors.AsOrWrap(err)
	}
	relay := deeplink.NewRelay(mcp_pkg.NewSessionEmitter(server), log)

	inst, err := deeplink.Start(ctx, deeplink.Options{
		Scheme:   scheme,
		Endpoint: cfg.DeepLink.Endpoint,
		Register: cfg.DeepLink.ShouldRegister() && !opts.noRegister,
		Logger:   log,
	}, relay)
	if stderrors.Is(err, deeplink.ErrAlreadyRunning) {
		return handOff(ctx, cfg.DeepLink.Endpoint, launchURLs)
	}
	if err != nil {
		return errors.AsOrWrap(err)
	}
	defer inst.Close()

	// 存储不可用不阻止启动，只影响单次调用
	if err := keychain.Probe(vault.Keychain.Store()); err != nil {
		log.Warn("credential store unavailable; keychain calls will fail until it recovers",
			"backend", vault.Backend, "error", err)
	}

	relayDone := make(chan error, 1)
	go func() { relayDone <- inst.Serve(ctx) }()

	if len(launchURLs) > 0 {
		// 尚无 UI 会话时这些事件会被丢弃
		relay.Dispatch(ctx, deeplink.NewActivation(launchURLs))
	}

	bridgeErr := serveBridge(ctx, server, resolved)
	cancel()
	relayErr := <-relayDone
	if bridgeErr != nil {
		return bridgeErr
	}
	if relayErr != nil {
		return errors.Wrap(errors.CodeDeepLinkUnavailable, "deep-link relay stopped", nil, relayErr)
	}
	return finishServe(ctl, inst, launchURLs)
}

// finishServe carries out an exit or restart requested through the bridge.
func finishServe(ctl *processControl, inst io.Closer, launchURLs []string) error {
	log := logger()
	requested, code, restart := ctl.outcome()
	if !requested {
		log.Info("serve stopped")
		return nil
	}
	// 新进程需要先拿到端点
	_ = inst.Close()
	if restart {
		if err := relaunch(relaunchArgs(os.Args[1:], launchURLs)); err != nil {
			return errors.Wrap(errors.CodeInternal, "failed to relaunch", nil, err)
		}
		log.Info("serve relaunched")
		return nil
	}
	log.Info("serve stopped", "exit_code", code)
	if code != 0 {
		return &exitRequest{code: code}
	}
	return nil
}

// handOff forwards the launch URIs to the instance that owns the endpoint.
func handOff(ctx context.Context, endpoint string, urls []string) error {
	log := logger()
	if len(urls) == 0 {
		log.Info("another instance is already running; nothing to forward")
		return nil
	}
	n, err := deeplink.Forward(ctx, endpoint, urls)
	if err != nil {
		return errors.AsOrWrap(err)
	}
	log.Info("another instance is already running; deep links forwarded", "urls", len(urls), "delivered", n)
	return nil
}

func serveBridge(ctx context.Context, server *mcp.Server, resolved serveResolved) error {
	log := logger()
	switch resolved.transport {
	case mcp_pkg.TransportStdio:
		log.Info("bridge serving", "transport", resolved.transport)
		err := server.Run(ctx, &mcp.StdioTransport{})
		if err != nil && ctx.Err() == nil {
			return errors.Wrap(errors.CodeInternal, "bridge stopped", nil, err)
		}
		return nil
	case mcp_pkg.TransportStreamableHTTP:
		handler, err := mcp_pkg.NewStreamableHTTPHandler(server, resolved.httpAuthToken)
		if err != nil {
			return errors.AsOrWrap(err)
		}
		httpServer := &http.Server{
			Addr:              resolved.httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.ListenAndServe() }()
		log.Info("bridge serving", "transport", resolved.transport, "addr", resolved.httpAddr)

		select {
		case err := <-errCh:
			return errors.Wrap(errors.CodeInternal, "bridge http server failed", map[string]any{"addr": resolved.httpAddr}, err)
		case <-ctx.Done():
		}
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(sctx); err != nil {
			log.Warn("bridge http shutdown", "error", err)
		}
		return nil
	default:
		return errors.New(errors.CodeCfgInvalid, "unsupported bridge transport", map[string]any{"transport": resolved.transport})
	}
}

func resolveServeOptions(opts *serveOptions, cfg config.File, store keychain.Store) (serveResolved, *errors.XError) {
	if opts == nil {
		opts = &serveOptions{}
	}

	transport := firstNonEmpty(
		valueIfSet(opts.transportSet, opts.transport),
		os.Getenv("SPECTRUS_BRIDGE_TRANSPORT"),
		cfg.Bridge.Transport,
	)
	if transport == "" {
		transport = mcp_pkg.TransportStdio
	}
	if transport != mcp_pkg.TransportStdio && transport != mcp_pkg.TransportStreamableHTTP {
		return serveResolved{}, errors.New(errors.CodeCfgInvalid, "invalid bridge transport",
			map[string]any{"transport": transport, "supported": mcp_pkg.Transports()})
	}

	httpAddr := firstNonEmpty(
		valueIfSet(opts.httpAddrSet, opts.httpAddr),
		os.Getenv("SPECTRUS_BRIDGE_HTTP_ADDR"),
		cfg.Bridge.HTTP.Addr,
	)
	if httpAddr == "" {
		httpAddr = config.DefaultHTTPAddr
	}

	resolved := serveResolved{transport: transport, httpAddr: httpAddr}
	if transport != mcp_pkg.TransportStreamableHTTP {
		return resolved, nil
	}

	authToken := firstNonEmpty(
		valueIfSet(opts.httpAuthTokenSet, opts.httpAuthToken),
		os.Getenv("SPECTRUS_BRIDGE_HTTP_AUTH_TOKEN"),
	)
	if authToken == "" && cfg.Bridge.HTTP.AuthToken != "" {
		secretValue, xe := keychain.Resolve(cfg.Bridge.HTTP.AuthToken, keychain.ResolveOptions{
			AllowPlaintext: cfg.Bridge.HTTP.AllowPlaintextToken,
			Store:          store,
		})
		if xe != nil {
			return serveResolved{}, xe
		}
		authToken = secretValue
	}
	if authToken == "" {
		return serveResolved{}, errors.New(errors.CodeCfgInvalid, "streamable http transport requires auth token", nil)
	}
	resolved.httpAuthToken = authToken
	return resolved, nil
}
