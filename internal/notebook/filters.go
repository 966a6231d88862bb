package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var registerFiltersOnce sync.Once

// RegisterFilters registers the notebook template filters with pongo2 and
// disables HTML autoescaping. Template output is embedded in JSON documents,
// not HTML, so the escaping contract is carried entirely by the quote and
// json_escape filters.
func RegisterFilters() {
	registerFiltersOnce.Do(func() {
		pongo2.SetAutoescape(false)
		if !pongo2.FilterExists("quote") {
			_ = pongo2.RegisterFilter("quote", filterQuote)
		}
		if !pongo2.FilterExists("json_escape") {
			_ = pongo2.RegisterFilter("json_escape", filterJSONEscape)
		}
		// Short alias used throughout the stock templates.
		if !pongo2.FilterExists("je") {
			_ = pongo2.RegisterFilter("je", filterJSONEscape)
		}
	})
}

func filterQuote(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(Quote(in.Interface())), nil
}

func filterJSONEscape(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(JSONEscape(in.Interface())), nil
}

// Quote renders a value as a double-quoted string literal. Embedded double
// quotes are escaped with a backslash; no other characters are touched,
// escaping control characters is the job of JSONEscape. Sequences become a
// multi-line bracketed literal with one quoted element per line and trailing
// commas, which round-trips as a Python list inside a code cell.
func Quote(value any) string {
	switch v := value.(type) {
	case []any:
		return quoteSequence(v)
	case []string:
		seq := make([]any, len(v))
		for i, s := range v {
			seq[i] = s
		}
		return quoteSequence(seq)
	default:
		return quoteScalar(stringify(value))
	}
}

func quoteScalar(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func quoteSequence(values []any) string {
	if len(values) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, v := range values {
		b.WriteString("    ")
		b.WriteString(quoteScalar(stringify(v)))
		b.WriteString(",\n")
	}
	b.WriteString("]")
	return b.String()
}

// JSONEscape renders a value for embedding inside an already double-quoted
// JSON string: full JSON string escaping (backslash, quote, control
// characters as \n, \uXXXX and friends) with the encoder's outer quotes
// stripped. HTML characters are left alone.
func JSONEscape(value any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(stringify(value)); err != nil {
		// Encoding a string cannot fail; keep the value visible if it ever does.
		return stringify(value)
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	return strings.TrimSuffix(strings.TrimPrefix(out, `"`), `"`)
}

// stringify converts a context value to its source-text form. Numbers keep
// their exact request representation thanks to json.Number decoding.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
