package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonhub/devhub/internal/domain"
)

func TestMessage_Accessors(t *testing.T) {
	m := domain.Message{
		"type":               "warning",
		"tier":               2.0,
		"signing_severity":   "low",
		"compatibility_type": "error",
	}

	assert.Equal(t, "warning", m.Type())
	tier, ok := m.Tier()
	assert.True(t, ok)
	assert.Equal(t, 2, tier)
	sev, ok := m.SigningSeverity()
	assert.True(t, ok)
	assert.Equal(t, "low", sev)
	assert.Equal(t, "error", m.CompatibilityType())

	_, set := m.IgnoreDuplicates()
	assert.False(t, set)
	m.SetIgnoreDuplicates(false)
	v, set := m.IgnoreDuplicates()
	assert.True(t, set)
	assert.False(t, v)
}

func TestMessage_NullsCountAsAbsent(t *testing.T) {
	m := domain.Message{"tier": nil, "signing_severity": nil, "ignore_duplicates": nil}

	_, ok := m.Tier()
	assert.False(t, ok)
	_, ok = m.SigningSeverity()
	assert.False(t, ok)
	_, set := m.IgnoreDuplicates()
	assert.False(t, set)
}

func TestMessage_EmptySigningSeverityIsAbsent(t *testing.T) {
	m := domain.Message{"signing_severity": ""}

	_, ok := m.SigningSeverity()
	assert.False(t, ok)
}

func TestMessage_CloneIsShallowCopy(t *testing.T) {
	m := domain.Message{"type": "error"}
	c := m.Clone()
	c["type"] = "notice"
	assert.Equal(t, "error", m.Type())
}

func TestSigningSummary(t *testing.T) {
	var s domain.SigningSummary
	assert.True(t, s.Increment("low"))
	assert.True(t, s.Increment("high"))
	assert.True(t, s.Increment("high"))
	assert.False(t, s.Increment("bogus"))

	assert.Equal(t, 1, s.Get("low"))
	assert.Equal(t, 2, s.Get("high"))
	assert.Zero(t, s.Get("bogus"))
	assert.Equal(t, 3, s.Total())
}

func TestResult_PreservesUnknownFields(t *testing.T) {
	in := `{"success":true,"errors":0,"warnings":0,"notices":0,"messages":[{"id":["a"],"extra":1}],` +
		`"ending_tier":0,"compatibility_summary":{"errors":0,"warnings":0,"notices":0},"message_tree":{"a":{}}}`

	var r domain.Result
	require.NoError(t, json.Unmarshal([]byte(in), &r))
	assert.Contains(t, r.Extra, "message_tree")
	assert.Equal(t, 1.0, r.Messages[0]["extra"])

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestResult_MarshalEmptyMessages(t *testing.T) {
	out, err := json.Marshal(domain.Result{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"messages":[]`)
	assert.NotContains(t, string(out), "signing_summary")
}

func TestResultFromMap(t *testing.T) {
	r, err := domain.ResultFromMap(map[string]any{
		"errors":          2,
		"signing_summary": map[string]any{"low": 1},
		"messages":        []any{map[string]any{"type": "error"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Errors)
	assert.Equal(t, 1, r.SigningSummary.Low)
	assert.Equal(t, "error", r.Messages[0].Type())
}

func TestResult_PassesAutoValidation(t *testing.T) {
	r := &domain.Result{}
	assert.True(t, r.PassesAutoValidation())

	r.SigningSummary = &domain.SigningSummary{Trivial: 1}
	assert.False(t, r.PassesAutoValidation())
}

func TestExceptionResult(t *testing.T) {
	r := domain.ExceptionResult()

	assert.False(t, r.Success)
	assert.Equal(t, 1, r.Errors)
	assert.Equal(t, 5, r.EndingTier)
	require.Len(t, r.Messages, 1)
	m := r.Messages[0]
	assert.Equal(t, []string{"validator", "unexpected_exception"}, m["id"])
	assert.Equal(t, "error", m.Type())
	assert.Len(t, m["uid"], 32)
}

func TestAsInt(t *testing.T) {
	assert.Equal(t, 3, domain.AsInt(3))
	assert.Equal(t, 3, domain.AsInt(3.0))
	assert.Equal(t, 3, domain.AsInt(int64(3)))
	assert.Equal(t, 3, domain.AsInt(json.Number("3")))
	assert.Equal(t, 0, domain.AsInt("3"))
}
