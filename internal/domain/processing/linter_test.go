package processing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonhub/devhub/internal/domain"
	"github.com/addonhub/devhub/internal/domain/processing"
)

func linterOutput() map[string]any {
	return map[string]any{
		"errors": []any{
			map[string]any{"_type": "error", "code": "MANIFEST_BAD", "message": "bad manifest", "file": "manifest.json"},
		},
		"warnings": []any{
			map[string]any{"code": "UNSAFE_VAR", "message": "unsafe"},
		},
		"notices": []any{
			map[string]any{"_type": "notice", "code": "NOTE", "message": "fyi"},
		},
		"metadata": map[string]any{
			"jsLibs":       map[string]any{"lib/jquery.js": "jquery.2.1.4.jquery.js"},
			"name":         "My Addon",
			"listed":       "overridden",
			"manifestJSON": map[string]any{},
		},
	}
}

func TestFixAddonsLinterOutput_IdentityForCanonical(t *testing.T) {
	raw := map[string]any{"messages": []any{}, "errors": 0, "anything": "kept"}

	got, err := processing.FixAddonsLinterOutput(raw, true)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestFixAddonsLinterOutput_Translates(t *testing.T) {
	got, err := processing.FixAddonsLinterOutput(linterOutput(), false)
	require.NoError(t, err)

	assert.Equal(t, false, got["success"])
	assert.Equal(t, 1, got["errors"])
	assert.Equal(t, 1, got["warnings"])
	assert.Equal(t, 1, got["notices"])
	assert.Equal(t, "extension", got["detected_type"])
	assert.Equal(t, 5, got["ending_tier"])

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 3)

	first := msgs[0].(map[string]any)
	assert.Equal(t, []any{"MANIFEST_BAD"}, first["id"])
	assert.Equal(t, "error", first["type"])
	assert.Equal(t, 1, first["tier"])
	assert.NotContains(t, first, "_type")
	assert.NotContains(t, first, "code")
	assert.Len(t, first["uid"], 32)

	// errors, then notices, then warnings
	assert.Equal(t, []any{"NOTE"}, msgs[1].(map[string]any)["id"])
	warning := msgs[2].(map[string]any)
	assert.Equal(t, []any{"UNSAFE_VAR"}, warning["id"])
	assert.Equal(t, "warning", warning["type"], "missing _type falls back to the bucket")

	meta := got["metadata"].(map[string]any)
	assert.Equal(t, "overridden", meta["listed"], "linter metadata overlays the defaults")
	assert.Equal(t, true, meta["is_webextension"])
	assert.Equal(t, true, meta["processed_by_addons_linter"])
	assert.Equal(t, "My Addon", meta["name"])
	assert.Equal(t, map[string]any{
		"lib/jquery.js": map[string]any{"path": "jquery.2.1.4.jquery.js"},
	}, meta["identified_files"])
}

func TestFixAddonsLinterOutput_ListedDefault(t *testing.T) {
	raw := map[string]any{"errors": []any{}, "warnings": []any{}, "notices": []any{}}

	got, err := processing.FixAddonsLinterOutput(raw, true)
	require.NoError(t, err)

	assert.Equal(t, true, got["success"])
	assert.Equal(t, []any{}, got["messages"])
	meta := got["metadata"].(map[string]any)
	assert.Equal(t, true, meta["listed"])
	assert.Equal(t, map[string]any{}, meta["identified_files"])
}

func TestFixAddonsLinterOutput_SummaryWins(t *testing.T) {
	raw := linterOutput()
	raw["summary"] = map[string]any{"errors": 4.0, "warnings": 0.0, "notices": 2.0}

	got, err := processing.FixAddonsLinterOutput(raw, true)
	require.NoError(t, err)
	assert.Equal(t, 4, got["errors"])
	assert.Equal(t, 0, got["warnings"])
	assert.Equal(t, 2, got["notices"])
}

func TestFixAddonsLinterOutput_Malformed(t *testing.T) {
	cases := map[string]map[string]any{
		"empty":          {},
		"missing notice": {"errors": []any{}, "warnings": []any{}},
		"not a list":     {"errors": "x", "warnings": []any{}, "notices": []any{}},
		"scalar entry":   {"errors": []any{1}, "warnings": []any{}, "notices": []any{}},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := processing.FixAddonsLinterOutput(raw, true)
			assert.ErrorIs(t, err, domain.ErrMalformedLinterOutput)
		})
	}
}
