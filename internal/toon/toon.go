// Package toon implements a token-oriented re-serialization of JSON trees.
//
// The encoding exists for one reason: the serialized document is pasted into
// an LLM prompt, and dropping braces, commas and most quotes measurably
// shrinks the token count. It is a lossless reformatting, not a storage
// format. Unmarshal exists to prove losslessness; production code only calls
// Marshal.
//
// Shape:
//
//	name: Sankalp
//	fees:
//	  hostel: "50000"
//	  mess: 24000
//	courses[3]: CSE,IT,AIML
//	notes[2]:
//	  - scalar entry
//	  -
//	    nested: true
//
// Maps render as "key: value" lines with nested blocks indented two spaces.
// Lists carry their length in the key ("key[N]"); all-scalar lists inline as
// a comma-separated row, others put one "-" entry per line. Strings are bare
// unless a bare rendering would be ambiguous, in which case they are quoted
// with JSON escaping.
package toon

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const indentStep = "  "

var bareKeyRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Marshal encodes a JSON-shaped value (maps, slices, strings, json.Number,
// float64, int variants, bool, nil) into the compact notation.
func Marshal(v any) (string, error) {
	var b strings.Builder
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			return "{}", nil
		}
		if err := writeMap(&b, t, 0); err != nil {
			return "", err
		}
	case []any:
		if len(t) == 0 {
			return "[]", nil
		}
		if err := writeList(&b, t, 0); err != nil {
			return "", err
		}
	default:
		s, err := scalarString(v)
		if err != nil {
			return "", err
		}
		return s, nil
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func writeMap(b *strings.Builder, m map[string]any, depth int) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pad := strings.Repeat(indentStep, depth)
	for _, k := range keys {
		if err := writeEntry(b, pad, encodeKey(k), m[k], depth); err != nil {
			return fmt.Errorf("toon: key %q: %w", k, err)
		}
	}
	return nil
}

func writeEntry(b *strings.Builder, pad, key string, v any, depth int) error {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			b.WriteString(pad + key + ": {}\n")
			return nil
		}
		b.WriteString(pad + key + ":\n")
		return writeMap(b, t, depth+1)
	case []any:
		if inline, ok := inlineList(t); ok {
			b.WriteString(pad + key + "[" + strconv.Itoa(len(t)) + "]:" + inline + "\n")
			return nil
		}
		b.WriteString(pad + key + "[" + strconv.Itoa(len(t)) + "]:\n")
		return writeList(b, t, depth+1)
	default:
		s, err := scalarString(v)
		if err != nil {
			return err
		}
		b.WriteString(pad + key + ": " + s + "\n")
		return nil
	}
}

// inlineList renders an all-scalar list as " a,b,c". Empty lists inline to
// an empty remainder so "key[0]:" stands alone.
func inlineList(list []any) (string, bool) {
	if len(list) == 0 {
		return "", true
	}
	parts := make([]string, 0, len(list))
	for _, v := range list {
		switch v.(type) {
		case map[string]any, []any:
			return "", false
		}
		s, err := scalarString(v)
		if err != nil {
			return "", false
		}
		parts = append(parts, s)
	}
	return " " + strings.Join(parts, ","), true
}

func writeList(b *strings.Builder, list []any, depth int) error {
	pad := strings.Repeat(indentStep, depth)
	for i, v := range list {
		switch t := v.(type) {
		case map[string]any:
			if len(t) == 0 {
				b.WriteString(pad + "- {}\n")
				continue
			}
			b.WriteString(pad + "-\n")
			if err := writeMap(b, t, depth+1); err != nil {
				return err
			}
		case []any:
			if inline, ok := inlineList(t); ok {
				b.WriteString(pad + "- [" + strconv.Itoa(len(t)) + "]:" + inline + "\n")
				continue
			}
			b.WriteString(pad + "- [" + strconv.Itoa(len(t)) + "]:\n")
			if err := writeList(b, t, depth+1); err != nil {
				return err
			}
		default:
			s, err := scalarString(v)
			if err != nil {
				return fmt.Errorf("toon: list index %d: %w", i, err)
			}
			b.WriteString(pad + "- " + s + "\n")
		}
	}
	return nil
}

func encodeKey(k string) string {
	// A leading dash would read as a list entry marker.
	if bareKeyRe.MatchString(k) && !strings.HasPrefix(k, "-") {
		return k
	}
	quoted, _ := json.Marshal(k)
	return string(quoted)
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(t), nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case string:
		if needsQuote(t) {
			quoted, _ := json.Marshal(t)
			return string(quoted), nil
		}
		return t, nil
	default:
		return "", fmt.Errorf("toon: unsupported type %T", v)
	}
}

// needsQuote reports whether a bare rendering of s would collide with
// another literal or confuse the line-oriented decoder.
func needsQuote(s string) bool {
	switch s {
	case "", "null", "true", "false", "{}", "[]", "-":
		return true
	}
	if looksNumeric(s) {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "[") {
		return true
	}
	return strings.ContainsAny(s, "\"\\,:\n\r\t")
}

func looksNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Unmarshal decodes a document produced by Marshal. Numbers come back as
// json.Number, objects as map[string]any, lists as []any.
func Unmarshal(s string) (any, error) {
	switch s {
	case "{}":
		return map[string]any{}, nil
	case "[]":
		return []any{}, nil
	}

	lines := splitLines(s)
	if len(lines) == 0 {
		return nil, errors.New("toon: empty document")
	}
	if len(lines) == 1 {
		if tok := lines[0].text; strings.HasPrefix(tok, `"`) {
			// A lone quoted line is a scalar document when the string
			// spans the whole line; otherwise it opens a quoted key.
			if _, rest, err := takeQuoted(tok); err == nil && rest == "" {
				return decodeScalar(tok)
			}
		} else if !strings.Contains(tok, ": ") && !strings.HasSuffix(tok, ":") &&
			!strings.HasPrefix(tok, "- ") {
			return decodeScalar(tok)
		}
	}

	p := &parser{lines: lines}
	var (
		v   any
		err error
	)
	if strings.HasPrefix(lines[0].text, "-") {
		v, err = p.parseList(0)
	} else {
		v, err = p.parseMap(0)
	}
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.lines) {
		return nil, fmt.Errorf("toon: trailing content at line %d", p.lines[p.pos].num)
	}
	return v, nil
}

type line struct {
	indent int
	text   string
	num    int
}

func splitLines(s string) []line {
	var out []line
	for i, raw := range strings.Split(s, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		indent := 0
		for strings.HasPrefix(raw[indent*len(indentStep):], indentStep) {
			indent++
		}
		out = append(out, line{indent: indent, text: raw[indent*len(indentStep):], num: i + 1})
	}
	return out
}

type parser struct {
	lines []line
	pos   int
}

func (p *parser) parseMap(depth int) (map[string]any, error) {
	out := map[string]any{}
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if ln.indent < depth {
			break
		}
		if ln.indent > depth {
			return nil, fmt.Errorf("toon: unexpected indent at line %d", ln.num)
		}
		key, rest, listLen, isList, err := splitKey(ln.text)
		if err != nil {
			return nil, fmt.Errorf("toon: line %d: %w", ln.num, err)
		}
		p.pos++

		var v any
		switch {
		case isList && rest != "":
			v, err = decodeInlineList(rest, listLen)
		case isList:
			v, err = p.parseBoundedList(depth+1, listLen)
		case rest != "":
			v, err = decodeValueToken(rest)
		default:
			v, err = p.parseChild(depth + 1)
		}
		if err != nil {
			return nil, fmt.Errorf("toon: line %d: %w", ln.num, err)
		}
		out[key] = v
	}
	return out, nil
}

// parseChild decodes the indented block that follows a bare "key:" line.
func (p *parser) parseChild(depth int) (any, error) {
	if p.pos >= len(p.lines) || p.lines[p.pos].indent < depth {
		return nil, errors.New("missing nested block")
	}
	if strings.HasPrefix(p.lines[p.pos].text, "-") {
		return p.parseList(depth)
	}
	return p.parseMap(depth)
}

func (p *parser) parseBoundedList(depth, want int) ([]any, error) {
	if want == 0 {
		return []any{}, nil
	}
	list, err := p.parseList(depth)
	if err != nil {
		return nil, err
	}
	if len(list) != want {
		return nil, fmt.Errorf("list length %d does not match declared %d", len(list), want)
	}
	return list, nil
}

func (p *parser) parseList(depth int) ([]any, error) {
	out := []any{}
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if ln.indent != depth || !strings.HasPrefix(ln.text, "-") {
			break
		}
		p.pos++
		switch {
		case ln.text == "-":
			child, err := p.parseMap(depth + 1)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		case strings.HasPrefix(ln.text, "- ["):
			header := strings.TrimPrefix(ln.text, "- ")
			n, rest, err := splitListHeader(header)
			if err != nil {
				return nil, fmt.Errorf("toon: line %d: %w", ln.num, err)
			}
			var child []any
			if rest != "" {
				child, err = decodeInlineList(rest, n)
			} else {
				child, err = p.parseBoundedList(depth+1, n)
			}
			if err != nil {
				return nil, fmt.Errorf("toon: line %d: %w", ln.num, err)
			}
			out = append(out, child)
		case strings.HasPrefix(ln.text, "- "):
			v, err := decodeValueToken(strings.TrimPrefix(ln.text, "- "))
			if err != nil {
				return nil, fmt.Errorf("toon: line %d: %w", ln.num, err)
			}
			out = append(out, v)
		default:
			return nil, fmt.Errorf("toon: line %d: malformed list entry", ln.num)
		}
	}
	return out, nil
}

// splitKey splits "key: rest", "key:", "key[N]: rest" or "key[N]:" lines.
func splitKey(text string) (key, rest string, listLen int, isList bool, err error) {
	if strings.HasPrefix(text, `"`) {
		var raw string
		raw, text, err = takeQuoted(text)
		if err != nil {
			return "", "", 0, false, err
		}
		key = raw
	} else {
		idx := strings.IndexAny(text, ":[")
		if idx < 0 {
			return "", "", 0, false, errors.New("missing key separator")
		}
		key = text[:idx]
		text = text[idx:]
	}

	if strings.HasPrefix(text, "[") {
		listLen, rest, err = splitListHeader(text)
		return key, rest, listLen, true, err
	}
	rest, err = takeColon(text)
	return key, rest, 0, false, err
}

// splitListHeader parses "[N]:" or "[N]: inline" and returns N plus the
// inline remainder.
func splitListHeader(text string) (int, string, error) {
	end := strings.Index(text, "]")
	if !strings.HasPrefix(text, "[") || end < 0 {
		return 0, "", errors.New("malformed list header")
	}
	n, err := strconv.Atoi(text[1:end])
	if err != nil || n < 0 {
		return 0, "", errors.New("malformed list length")
	}
	rest, err := takeColon(text[end+1:])
	return n, rest, err
}

func takeColon(text string) (string, error) {
	if text == ":" {
		return "", nil
	}
	if !strings.HasPrefix(text, ": ") {
		return "", errors.New("missing value separator")
	}
	return text[2:], nil
}

// takeQuoted consumes a leading JSON string and returns it decoded along
// with the remaining text.
func takeQuoted(text string) (string, string, error) {
	end := -1
	for i := 1; i < len(text); i++ {
		if text[i] == '\\' {
			i++
			continue
		}
		if text[i] == '"' {
			end = i
			break
		}
	}
	if end < 0 {
		return "", "", errors.New("unterminated quoted string")
	}
	var s string
	if err := json.Unmarshal([]byte(text[:end+1]), &s); err != nil {
		return "", "", fmt.Errorf("bad quoted string: %w", err)
	}
	return s, text[end+1:], nil
}

func decodeInlineList(rest string, want int) ([]any, error) {
	parts, err := splitInline(rest)
	if err != nil {
		return nil, err
	}
	if len(parts) != want {
		return nil, fmt.Errorf("inline list length %d does not match declared %d", len(parts), want)
	}
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		v, err := decodeScalar(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// splitInline splits a comma-separated row, honoring quoted elements.
func splitInline(s string) ([]string, error) {
	var parts []string
	for s != "" {
		if strings.HasPrefix(s, `"`) {
			_, rest, err := takeQuoted(s)
			if err != nil {
				return nil, err
			}
			parts = append(parts, s[:len(s)-len(rest)])
			s = strings.TrimPrefix(rest, ",")
			continue
		}
		idx := strings.Index(s, ",")
		if idx < 0 {
			parts = append(parts, s)
			break
		}
		parts = append(parts, s[:idx])
		s = s[idx+1:]
	}
	return parts, nil
}

// decodeValueToken decodes the remainder of a "key: value" line. Bare text
// keeps everything after the separator, including colons and commas.
func decodeValueToken(tok string) (any, error) {
	if strings.HasPrefix(tok, `"`) {
		raw, rest, err := takeQuoted(tok)
		if err != nil {
			return nil, err
		}
		if rest != "" {
			return nil, errors.New("trailing content after quoted value")
		}
		return raw, nil
	}
	return decodeScalar(tok)
}

func decodeScalar(tok string) (any, error) {
	switch tok {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "{}":
		return map[string]any{}, nil
	case "[]":
		return []any{}, nil
	}
	if strings.HasPrefix(tok, `"`) {
		var s string
		if err := json.Unmarshal([]byte(tok), &s); err != nil {
			return nil, fmt.Errorf("bad quoted string: %w", err)
		}
		return s, nil
	}
	if looksNumeric(tok) {
		return json.Number(tok), nil
	}
	return tok, nil
}
