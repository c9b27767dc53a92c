package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/clk-66/spectrus-desktop/internal/deeplink"
	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/output"
)

type openOptions struct {
	endpoint    string
	endpointSet bool
}

// NewOpenCommand creates the open command. The OS runs it as the scheme
// handler: `spectrus-desktop open spectrus://...`.
func NewOpenCommand(w *output.Writer) *cobra.Command {
	opts := &openOptions{}
	cmd := &cobra.Command{
		Use:   "open <uri>...",
		Short: "Forward deep-link URIs to the running instance",
		Long: "Forward deep-link URIs to the running instance as one activation.\n\n" +
			"On linux and windows the OS launches this command directly for every\n" +
			"activation (see register). On macOS LaunchServices delivers activations to\n" +
			"the app bundle's main executable as a kAEGetURL Apple Event instead; the\n" +
			"desktop shell must relay each received URL by running\n" +
			"`spectrus-desktop open <uri>`.",
		Args:  cobra.MinimumNArgs(1),
		// 启动器可能附带未知参数（例如 macOS 的 -psn_*），忽略即可
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.endpointSet = cmd.Flags().Changed("endpoint")
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			result, xe := runOpen(cmd.Context(), opts, args)
			if xe != nil {
				return xe
			}
			return w.WriteOK(format, result)
		},
	}
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "Activation endpoint (default: platform default)")
	return cmd
}

type openResult struct {
	Endpoint  string   `json:"endpoint" yaml:"endpoint"`
	URLs      []string `json:"urls" yaml:"urls"`
	Delivered int      `json:"delivered" yaml:"delivered"`
}

func runOpen(ctx context.Context, opts *openOptions, args []string) (openResult, *errors.XError) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := GlobalConfig.Resolved.File
	scheme := firstNonEmpty(cfg.DeepLink.Scheme, deeplink.DefaultScheme)

	urls, xe := deeplink.ParseArgs(scheme, args)
	if xe != nil {
		return openResult{}, xe
	}
	if len(urls) == 0 {
		return openResult{}, errors.New(errors.CodeDeepLinkInvalid, "no deep link in arguments",
			map[string]any{"scheme": scheme, "args": args})
	}

	endpoint := firstNonEmpty(valueIfSet(opts.endpointSet, opts.endpoint), cfg.DeepLink.Endpoint, deeplink.DefaultEndpoint())
	n, err := deeplink.Forward(ctx, endpoint, urls)
	if err != nil {
		return openResult{}, errors.AsOrWrap(err)
	}
	logger().Debug("deep link forwarded to running instance", "endpoint", endpoint, "urls", len(urls), "delivered", n)
	return openResult{Endpoint: endpoint, URLs: urls, Delivered: n}, nil
}
