package deeplink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Registration describes how the OS should launch the handler for a scheme.
type Registration struct {
	Scheme string
	// Exe is the absolute path of the handler binary.
	Exe string
	// Name is shown by the OS in "open with" dialogs.
	Name string
}

// Register tells the OS to launch reg.Exe with "open <uri>" when reg.Scheme
// is activated. Registration is per-user and idempotent.
func Register(ctx context.Context, reg Registration, logger *slog.Logger) error {
	if !ValidScheme(reg.Scheme) {
		return fmt.Errorf("invalid scheme %q", reg.Scheme)
	}
	if reg.Exe == "" {
		return fmt.Errorf("handler executable is required")
	}
	if reg.Name == "" {
		reg.Name = "Spectrus"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return registerScheme(ctx, reg, logger)
}

// desktopEntryName 是 linux 上 .desktop 文件的名字。
func desktopEntryName(scheme string) string {
	return strings.ToLower(scheme) + "-url-handler.desktop"
}

// desktopEntry renders the freedesktop entry that maps x-scheme-handler/<scheme>
// to the handler binary.
func desktopEntry(reg Registration) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", reg.Name)
	fmt.Fprintf(&b, "Exec=%s open %%u\n", quoteExec(reg.Exe))
	b.WriteString("Terminal=false\n")
	b.WriteString("NoDisplay=true\n")
	fmt.Fprintf(&b, "MimeType=x-scheme-handler/%s;\n", strings.ToLower(reg.Scheme))
	return b.String()
}

// execReserved 是 Exec 键里需要加引号的字符。
const execReserved = " \t\n\"'\\><~|&;$*?#()`"

// quoteExec quotes a path for the Exec key of a desktop entry. Inside quotes
// the characters " ` $ and \ are backslash-escaped, and because Exec is itself
// a string value every backslash is escaped once more. A literal % becomes
// %% so it is not read as a field code.
func quoteExec(path string) string {
	path = strings.ReplaceAll(path, "%", "%%")
	if !strings.ContainsAny(path, execReserved) {
		return path
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	quoted := `"` + r.Replace(path) + `"`
	return strings.ReplaceAll(quoted, `\`, `\\`)
}
