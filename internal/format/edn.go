package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes the EDN subset needed for CLI payloads: maps with keyword
// keys, vectors, strings, integers, floats, booleans and nil.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	e := ednWriter{buf: &buf, pretty: pretty}
	e.value(x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednWriter struct {
	buf    *bytes.Buffer
	pretty bool
}

func (e ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case int64:
		e.buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		e.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		e.vector(t, depth)
	case map[string]any:
		e.hashMap(t, depth)
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// sep goes between elements: a newline plus indent when pretty, else a space.
func (e ednWriter) sep(depth int) {
	if e.pretty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
		return
	}
	e.buf.WriteByte(' ')
}

func (e ednWriter) open(depth int) {
	if e.pretty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	}
}

func (e ednWriter) close(depth int) {
	if e.pretty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	}
}

func (e ednWriter) vector(xs []any, depth int) {
	e.buf.WriteByte('[')
	if len(xs) > 0 {
		e.open(depth + 1)
		for i, x := range xs {
			if i > 0 {
				e.sep(depth + 1)
			}
			e.value(x, depth+1)
		}
		e.close(depth)
	}
	e.buf.WriteByte(']')
}

func (e ednWriter) hashMap(m map[string]any, depth int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.buf.WriteByte('{')
	if len(keys) > 0 {
		e.open(depth + 1)
		for i, k := range keys {
			if i > 0 {
				e.sep(depth + 1)
			}
			e.buf.WriteByte(':')
			e.buf.WriteString(keyword(k))
			e.buf.WriteByte(' ')
			e.value(m[k], depth+1)
		}
		e.close(depth)
	}
	e.buf.WriteByte('}')
}

// keyword turns a json field name into a keyword: snake_case becomes
// kebab-case and whitespace is dropped.
func keyword(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "_", "-")
	return strings.Join(strings.Fields(s), "-")
}
