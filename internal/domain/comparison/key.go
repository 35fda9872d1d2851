package comparison

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/addonhub/devhub/internal/domain"
)

// ComputeKey returns the identity under which a message is matched across
// result sets. The key is the canonical JSON encoding of
//
//	[id, context, file, signing_severity, context_data]
//
// where file is normalized to a "/"-joined string, a missing signing severity
// is null and context_data is a list of [key, value] pairs sorted by key, or
// false when the message has no context_data at all.
//
// Messages without an id or without a non-empty context have no key and
// ComputeKey reports false.
func ComputeKey(m domain.Message) (domain.MessageKey, bool) {
	ctx, ok := asList(m[domain.FieldContext])
	if !ok || len(ctx) == 0 {
		return "", false
	}
	id, ok := asList(m[domain.FieldID])
	if !ok {
		return "", false
	}

	// The raw value goes into the key, so an empty severity stays distinct
	// from a missing one.
	var severity any
	if s, ok := m[domain.FieldSigningSeverity].(string); ok {
		severity = s
	}

	// false marks "no context_data"; an empty object becomes [] and so yields
	// a different key.
	var data any = false
	if raw := m[domain.FieldContextData]; raw != nil {
		pairs, ok := contextPairs(raw)
		if !ok {
			return "", false
		}
		data = pairs
	}

	key, err := encodeKey(id, ctx, normalizeFile(m[domain.FieldFile]), severity, data)
	if err != nil {
		return "", false
	}
	return key, true
}

// ParseMessageKey decodes a stored key and re-encodes it canonically, so keys
// written by other producers compare equal to keys from ComputeKey.
func ParseMessageKey(s string) (domain.MessageKey, error) {
	var parts []any
	if err := json.Unmarshal([]byte(s), &parts); err != nil {
		return "", fmt.Errorf("decoding message key: %w", err)
	}
	if len(parts) != 5 {
		return "", fmt.Errorf("message key has %d parts, want 5", len(parts))
	}

	id, ok := parts[0].([]any)
	if !ok {
		return "", errors.New("message key id is not a list")
	}
	ctx, ok := parts[1].([]any)
	if !ok || len(ctx) == 0 {
		return "", errors.New("message key context is not a non-empty list")
	}
	file, ok := parts[2].(string)
	if !ok {
		return "", errors.New("message key file is not a string")
	}
	switch parts[3].(type) {
	case nil, string:
	default:
		return "", errors.New("message key signing severity is not a string")
	}

	var data any = false
	switch d := parts[4].(type) {
	case bool:
		if d {
			return "", errors.New("message key context data is true")
		}
	case []any:
		pairs := make([]any, 0, len(d))
		for _, p := range d {
			pair, ok := p.([]any)
			if !ok || len(pair) != 2 {
				return "", errors.New("message key context data is not a list of pairs")
			}
			if _, ok := pair[0].(string); !ok {
				return "", errors.New("message key context data has a non-string name")
			}
			pairs = append(pairs, pair)
		}
		data = pairs
	default:
		return "", errors.New("message key context data is neither false nor a list")
	}

	return encodeKey(id, ctx, file, parts[3], data)
}

func encodeKey(id, ctx []any, file string, severity, data any) (domain.MessageKey, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{id, ctx, file, severity, data}); err != nil {
		return "", err
	}
	return domain.MessageKey(strings.TrimSuffix(buf.String(), "\n")), nil
}

// normalizeFile joins list-shaped file references with "/" so that
// ["a.jar", "b.js"] and "a.jar/b.js" identify the same file.
func normalizeFile(v any) string {
	switch f := v.(type) {
	case nil:
		return ""
	case string:
		return f
	case []string:
		return strings.Join(f, "/")
	case []any:
		parts := make([]string, len(f))
		for i, p := range f {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, "/")
	}
	return fmt.Sprint(v)
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func contextPairs(v any) ([]any, bool) {
	var data map[string]any
	switch d := v.(type) {
	case map[string]any:
		data = d
	case domain.Message:
		data = d
	case map[string]string:
		data = make(map[string]any, len(d))
		for k, s := range d {
			data[k] = s
		}
	default:
		return nil, false
	}

	names := make([]string, 0, len(data))
	for k := range data {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]any, 0, len(names))
	for _, k := range names {
		pairs = append(pairs, []any{k, data[k]})
	}
	return pairs, true
}
