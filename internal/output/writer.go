package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

// nullCell 是 table/csv 中 null 的显示值（例如 keychain get 的缺失值）。
const nullCell = "<null>"

type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

func (w Writer) WriteOK(format Format, data any) error {
	return w.write(format, Envelope{OK: true, SchemaVersion: SchemaVersion, Data: data})
}

func (w Writer) WriteError(format Format, xe *errors.XError) error {
	errObj := &ErrorObject{Code: xe.Code, Message: xe.Message, Details: xe.Details}
	return w.write(format, Envelope{OK: false, SchemaVersion: SchemaVersion, Error: errObj})
}

func (w Writer) write(format Format, env Envelope) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(env)
	case FormatYAML:
		b, err := yaml.Marshal(env)
		if err != nil {
			return err
		}
		_, err = w.Out.Write(b)
		if err != nil {
			return err
		}
		if len(b) == 0 || b[len(b)-1] != '\n' {
			_, _ = w.Out.Write([]byte("\n"))
		}
		return nil
	case FormatTable:
		return writeTable(w.Out, env)
	case FormatCSV:
		return writeCSV(w.Out, env)
	default:
		return errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": string(format)})
	}
}

// field 是展开后的一行 key/value。
type field struct {
	key   string
	value string
}

// flatten 把 data 展开为按 key 排序的 data.a.b 行；struct 先按 json tag 转成 map。
func flatten(prefix string, v any) []field {
	if v == nil {
		return []field{{prefix, nullCell}}
	}
	var generic any
	b, err := json.Marshal(v)
	if err != nil {
		return []field{{prefix, fmt.Sprintf("%v", v)}}
	}
	_ = json.Unmarshal(b, &generic)
	var out []field
	walk(prefix, generic, &out)
	return out
}

func walk(prefix string, v any, out *[]field) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			*out = append(*out, field{prefix, "{}"})
			return
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(prefix+"."+k, t[k], out)
		}
	case []any:
		// 列表不再展开，整体以单行 JSON 显示
		b, _ := json.Marshal(t)
		*out = append(*out, field{prefix, string(b)})
	default:
		*out = append(*out, field{prefix, formatCellValue(t)})
	}
}

func formatCellValue(v any) string {
	switch t := v.(type) {
	case nil:
		return nullCell
	case string:
		return t
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	default:
		return fmt.Sprintf("%v", t)
	}
}

func envelopeFields(env Envelope) []field {
	fields := []field{
		{"ok", fmt.Sprintf("%v", env.OK)},
		{"schema_version", fmt.Sprintf("%d", env.SchemaVersion)},
	}
	if env.OK {
		if env.Data != nil {
			fields = append(fields, flatten("data", env.Data)...)
		}
		return fields
	}
	if env.Error != nil {
		fields = append(fields,
			field{"error.code", string(env.Error.Code)},
			field{"error.message", env.Error.Message},
		)
		if len(env.Error.Details) > 0 {
			fields = append(fields, flatten("error.details", env.Error.Details)...)
		}
	}
	return fields
}

func writeTable(out io.Writer, env Envelope) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	for _, f := range envelopeFields(env) {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", f.key, strings.ReplaceAll(f.value, "\n", " "))
	}
	return tw.Flush()
}

func writeCSV(out io.Writer, env Envelope) error {
	// CSV 与 table 同为 key,value 两列；结构化场景建议用 json/yaml。
	cw := csv.NewWriter(out)
	for _, f := range envelopeFields(env) {
		if err := cw.Write([]string{f.key, f.value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
