package deeplink

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

// Options configures Start.
type Options struct {
	Scheme   string
	Endpoint string // empty: DefaultEndpoint()
	Register bool
	// Exe is the handler registered with the OS; empty: os.Executable().
	Exe    string
	Logger *slog.Logger
}

// Instance owns the activation endpoint for the life of the process.
type Instance struct {
	scheme   string
	endpoint string
	ln       net.Listener
	relay    *Relay
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// Start is the once-per-process initialization step: it claims the
// single-instance endpoint and registers the scheme with the OS. Activations
// accepted by Serve go to relay. If another instance already owns the
// endpoint Start returns ErrAlreadyRunning, and the caller should Forward
// its own URIs there instead. Registration failures are logged only.
func Start(ctx context.Context, opts Options, relay *Relay) (*Instance, error) {
	if relay == nil {
		return nil, errors.New(errors.CodeInternal, "deep-link relay is nil", nil)
	}
	if opts.Scheme == "" {
		opts.Scheme = DefaultScheme
	}
	if !ValidScheme(opts.Scheme) {
		return nil, errors.New(errors.CodeCfgInvalid, "invalid deep-link scheme", map[string]any{"scheme": opts.Scheme})
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "deeplink")

	ln, err := listen(opts.Endpoint)
	if err != nil {
		if stderrors.Is(err, ErrAlreadyRunning) {
			return nil, err
		}
		return nil, errors.Wrap(errors.CodeDeepLinkUnavailable, "failed to claim deep-link endpoint",
			map[string]any{"endpoint": opts.Endpoint}, err)
	}

	if opts.Register {
		exe := opts.Exe
		if exe == "" {
			exe, err = os.Executable()
		}
		if err == nil {
			err = Register(ctx, Registration{Scheme: opts.Scheme, Exe: exe}, logger)
		}
		if err != nil {
			logger.Warn("deep-link scheme registration failed", "scheme", opts.Scheme, "error", err)
		}
	}

	logger.Info("deep-link relay listening", "scheme", opts.Scheme, "endpoint", opts.Endpoint)
	return &Instance{
		scheme:   opts.Scheme,
		endpoint: opts.Endpoint,
		ln:       ln,
		relay:    relay,
		logger:   logger,
	}, nil
}

// Endpoint returns the claimed endpoint.
func (in *Instance) Endpoint() string {
	return in.endpoint
}

// Serve accepts activations until ctx is cancelled or Close is called.
func (in *Instance) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = in.Close() })
	defer stop()

	for {
		conn, err := in.ln.Accept()
		if err != nil {
			in.wg.Wait()
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		in.wg.Add(1)
		go func() {
			defer in.wg.Done()
			in.handle(ctx, conn)
		}()
	}
}

// Close releases the endpoint.
func (in *Instance) Close() error {
	in.closeOnce.Do(func() {
		in.closeErr = in.ln.Close()
	})
	return in.closeErr
}
