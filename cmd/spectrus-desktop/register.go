package main

import (
	"context"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/clk-66/spectrus-desktop/internal/deeplink"
	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/output"
)

type registerOptions struct {
	scheme    string
	schemeSet bool
	exe       string
}

// NewRegisterCommand creates the register command
func NewRegisterCommand(w *output.Writer) *cobra.Command {
	opts := &registerOptions{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the URI scheme handler with the OS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.schemeSet = cmd.Flags().Changed("scheme")
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			result, xe := runRegister(cmd.Context(), opts)
			if xe != nil {
				return xe
			}
			return w.WriteOK(format, result)
		},
	}
	cmd.Flags().StringVar(&opts.scheme, "scheme", deeplink.DefaultScheme, "URI scheme to register")
	return cmd
}

type registerResult struct {
	Scheme string `json:"scheme" yaml:"scheme"`
	Exe    string `json:"exe" yaml:"exe"`
	OS     string `json:"os" yaml:"os"`
}

func runRegister(ctx context.Context, opts *registerOptions) (registerResult, *errors.XError) {
	if ctx == nil {
		ctx = context.Background()
	}
	scheme := firstNonEmpty(valueIfSet(opts.schemeSet, opts.scheme), GlobalConfig.Resolved.File.DeepLink.Scheme, deeplink.DefaultScheme)
	if !deeplink.ValidScheme(scheme) {
		return registerResult{}, errors.New(errors.CodeCfgInvalid, "invalid deep-link scheme", map[string]any{"scheme": scheme})
	}
	exe := opts.exe
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return registerResult{}, errors.Wrap(errors.CodeInternal, "failed to locate executable", nil, err)
		}
	}
	reg := deeplink.Registration{Scheme: scheme, Exe: exe}
	if err := deeplink.Register(ctx, reg, logger()); err != nil {
		return registerResult{}, errors.Wrap(errors.CodeDeepLinkUnavailable, "scheme registration failed",
			map[string]any{"scheme": scheme, "reason": err.Error()}, err)
	}
	return registerResult{Scheme: scheme, Exe: exe, OS: runtime.GOOS}, nil
}
