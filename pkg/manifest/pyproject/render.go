package pyproject

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depfilter/pkg/manifest"
)

var bareKeyRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Render serializes the filtered document. It returns the new file content
// and the names of the top-level sections that were replaced by a
// placeholder comment.
func (d *Document) Render() ([]byte, []string, error) {
	var b bytes.Buffer
	top := d.orderedKeys(d.data)

	for _, k := range top {
		if k == projectKey || isTable(d.data[k]) {
			continue
		}
		if err := encodeValue(&b, k, d.data[k]); err != nil {
			return nil, nil, err
		}
	}

	if d.project != nil {
		if err := d.renderProject(&b); err != nil {
			return nil, nil, err
		}
	}

	var placeholders []string
	for _, k := range top {
		if k == projectKey || !isTable(d.data[k]) {
			continue
		}
		separate(&b)
		fmt.Fprintf(&b, "[%s]\n", quoteKey(k))
		fmt.Fprintf(&b, "# Section %s preserved but not filtered\n", k)
		placeholders = append(placeholders, k)
	}

	return b.Bytes(), placeholders, nil
}

func (d *Document) renderProject(b *bytes.Buffer) error {
	separate(b)
	b.WriteString("[project]\n")

	tables := map[string]any{}
	for _, k := range d.orderedKeys(d.project, projectKey) {
		v := d.project[k]
		switch {
		case k == depsKey && d.hasPrimary:
			writeArray(b, depsKey, d.group(""))
		case k == optionalKey && d.hasOptional:
			// emitted last as its own table
		case isTable(v):
			tables[k] = v
		default:
			if err := encodeValue(b, k, v); err != nil {
				return err
			}
		}
	}

	if len(tables) > 0 {
		if err := encodeSubtables(b, tables); err != nil {
			return err
		}
	}

	if d.hasOptional {
		b.WriteString("\n[project.optional-dependencies]\n")
		for _, g := range d.Manifest.Groups {
			if g.Name == "" {
				continue
			}
			writeArray(b, g.Name, g.Entries)
		}
	}
	return nil
}

// writeArray writes a multi-line string array, one entry per line.
func writeArray(b *bytes.Buffer, key string, entries []manifest.Entry) {
	fmt.Fprintf(b, "%s = [\n", quoteKey(key))
	for _, e := range entries {
		fmt.Fprintf(b, "    %s,\n", quoteString(e.Raw))
	}
	b.WriteString("]\n")
}

// encodeValue writes a single `key = value` line using the TOML encoder.
func encodeValue(b *bytes.Buffer, key string, v any) error {
	if err := toml.NewEncoder(b).Encode(map[string]any{key: v}); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return nil
}

// encodeSubtables writes table-valued [project] keys as [project.<key>] or
// [[project.<key>]] sections. The encoder emits the enclosing [project]
// header as well; it is dropped because the caller already wrote it.
func encodeSubtables(b *bytes.Buffer, tables map[string]any) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(map[string]any{projectKey: tables}); err != nil {
		return fmt.Errorf("encode %s tables: %w", projectKey, err)
	}
	out := buf.String()
	if first, rest, ok := strings.Cut(out, "\n"); ok && strings.TrimSpace(first) == "["+projectKey+"]" {
		out = rest
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimLeft(out, "\n"))
	return nil
}

// separate inserts a blank line between sections.
func separate(b *bytes.Buffer) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
}

// isTable reports whether v decodes from a TOML table or array of tables.
func isTable(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return true
	case []map[string]any:
		return true
	case []any:
		if len(t) == 0 {
			return false
		}
		for _, item := range t {
			if _, ok := item.(map[string]any); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func quoteKey(k string) string {
	if bareKeyRE.MatchString(k) {
		return k
	}
	return quoteString(k)
}

// quoteString renders s as a TOML basic string.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
