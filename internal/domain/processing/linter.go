package processing

import (
	"fmt"

	"github.com/addonhub/devhub/internal/domain"
)

// linterBuckets lists the addons-linter severity lists in merge order.
var linterBuckets = []struct {
	key      string
	fallback string
}{
	{"errors", domain.TypeError},
	{"notices", domain.TypeNotice},
	{"warnings", domain.TypeWarning},
}

// FixAddonsLinterOutput translates addons-linter output into the canonical
// result shape. Input that already has a top-level "messages" key is returned
// unchanged.
func FixAddonsLinterOutput(validation map[string]any, listed bool) (map[string]any, error) {
	if _, ok := validation["messages"]; ok {
		return validation, nil
	}

	buckets := make(map[string][]any, len(linterBuckets))
	for _, b := range linterBuckets {
		raw, ok := validation[b.key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", domain.ErrMalformedLinterOutput, b.key)
		}
		items, ok := raw.([]any)
		if !ok && raw != nil {
			return nil, fmt.Errorf("%w: %q is not a list", domain.ErrMalformedLinterOutput, b.key)
		}
		buckets[b.key] = items
	}

	var messages []any
	for _, b := range linterBuckets {
		for _, item := range buckets[b.key] {
			msg, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s entry is not an object", domain.ErrMalformedLinterOutput, b.key)
			}
			messages = append(messages, translateLinterMessage(msg, b.fallback))
		}
	}
	if messages == nil {
		messages = []any{}
	}

	counts := linterCounts(validation, buckets)
	linterMeta, _ := validation["metadata"].(map[string]any)

	// Essential metadata, overlaid with whatever the linter reported.
	metadata := map[string]any{
		"listed":           listed,
		"identified_files": identifiedFiles(linterMeta),
		"is_webextension":  true,
	}
	for k, v := range linterMeta {
		metadata[k] = v
	}
	metadata["processed_by_addons_linter"] = true

	return map[string]any{
		"success": len(buckets["errors"]) == 0,
		"compatibility_summary": map[string]any{
			"errors": 0, "warnings": 0, "notices": 0,
		},
		"signing_summary": map[string]any{
			domain.SigningTrivial: 0, domain.SigningLow: 0,
			domain.SigningMedium: 0, domain.SigningHigh: 0,
		},
		"errors":        counts.Errors,
		"warnings":      counts.Warnings,
		"notices":       counts.Notices,
		"messages":      messages,
		"metadata":      metadata,
		"detected_type": "extension",
		"ending_tier":   5,
	}, nil
}

// translateLinterMessage renames _type to type and code to a one-element id,
// assigns a fresh uid and pins the tier to 1. The linter has no tiers.
func translateLinterMessage(src map[string]any, fallbackType string) map[string]any {
	msg := make(map[string]any, len(src)+2)
	for k, v := range src {
		msg[k] = v
	}

	msg[domain.FieldUID] = domain.NewUID()

	if t, ok := msg["_type"]; ok {
		msg[domain.FieldType] = t
		delete(msg, "_type")
	} else if _, ok := msg[domain.FieldType]; !ok {
		msg[domain.FieldType] = fallbackType
	}

	code := msg["code"]
	delete(msg, "code")
	msg[domain.FieldID] = []any{code}
	msg[domain.FieldTier] = 1
	return msg
}

// linterCounts prefers the linter's own summary and falls back to list lengths.
func linterCounts(validation map[string]any, buckets map[string][]any) domain.Counts {
	counts := domain.Counts{
		Errors:   len(buckets["errors"]),
		Warnings: len(buckets["warnings"]),
		Notices:  len(buckets["notices"]),
	}
	summary, ok := validation["summary"].(map[string]any)
	if !ok {
		return counts
	}
	if v, ok := summary["errors"]; ok {
		counts.Errors = domain.AsInt(v)
	}
	if v, ok := summary["warnings"]; ok {
		counts.Warnings = domain.AsInt(v)
	}
	if v, ok := summary["notices"]; ok {
		counts.Notices = domain.AsInt(v)
	}
	return counts
}

// identifiedFiles turns the linter's jsLibs map into identified_files entries.
func identifiedFiles(metadata map[string]any) map[string]any {
	files := map[string]any{}
	libs, _ := metadata["jsLibs"].(map[string]any)
	for name, path := range libs {
		files[name] = map[string]any{"path": path}
	}
	return files
}
