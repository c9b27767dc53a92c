package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/output"
)

// maxSecretSize caps a secret read from stdin.
const maxSecretSize = 64 << 10

// NewKeychainCommand creates the keychain command group
func NewKeychainCommand(w *output.Writer) *cobra.Command {
	keychainCmd := &cobra.Command{
		Use:   "keychain",
		Short: "Read and write secrets in the OS credential store",
	}

	keychainCmd.AddCommand(newKeychainSetCommand(w))
	keychainCmd.AddCommand(newKeychainGetCommand(w))
	keychainCmd.AddCommand(newKeychainDeleteCommand(w))

	return keychainCmd
}

// newKeychainSetCommand creates the keychain set command
func newKeychainSetCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Store or overwrite a secret (prompts when value is omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			key := args[0]
			var value string
			if len(args) == 2 {
				value = args[1]
			} else {
				v, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), key)
				if err != nil {
					return err
				}
				value = v
			}

			vault, xe := openVault("cli")
			if xe != nil {
				return xe
			}
			defer vault.Close()

			if err := vault.Keychain.Set(key, value); err != nil {
				return err
			}
			return w.WriteOK(format, map[string]any{"key": key})
		},
	}
}

// newKeychainGetCommand creates the keychain get command
func newKeychainGetCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Read a secret (data.value is null when absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			vault, xe := openVault("cli")
			if xe != nil {
				return xe
			}
			defer vault.Close()

			key := args[0]
			value, found, err := vault.Keychain.Get(key)
			if err != nil {
				return err
			}
			var v *string
			if found {
				v = &value
			}
			return w.WriteOK(format, map[string]any{"key": key, "value": v})
		},
	}
}

// newKeychainDeleteCommand creates the keychain delete command
func newKeychainDeleteCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a secret (absent keys succeed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			vault, xe := openVault("cli")
			if xe != nil {
				return xe
			}
			defer vault.Close()

			key := args[0]
			if err := vault.Keychain.Delete(key); err != nil {
				return err
			}
			return w.WriteOK(format, map[string]any{"key": key})
		},
	}
}

// readSecret 从 TTY（不回显）或管道读取 secret。管道输入去掉末尾换行。
func readSecret(in io.Reader, prompt io.Writer, key string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(prompt, "Secret for %q: ", key)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", errors.Wrap(errors.CodeInternal, "failed to read secret from terminal", nil, err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(io.LimitReader(in, maxSecretSize+1))
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, "failed to read secret from stdin", nil, err)
	}
	if len(b) > maxSecretSize {
		return "", errors.New(errors.CodeCfgInvalid, "secret too large", map[string]any{"max_bytes": maxSecretSize})
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
