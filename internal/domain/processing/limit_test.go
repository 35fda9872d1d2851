package processing_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonhub/devhub/internal/domain"
	"github.com/addonhub/devhub/internal/domain/processing"
)

func TestLimitValidationResults_ShortListUnchanged(t *testing.T) {
	r := &domain.Result{Messages: []domain.Message{
		{"type": "notice", "id": []any{"1"}},
		{"type": "error", "id": []any{"2"}},
	}}

	processing.LimitValidationResults(r, 2)
	require.Len(t, r.Messages, 2)
	assert.Equal(t, []any{"1"}, r.Messages[0]["id"], "order untouched")

	processing.LimitValidationResults(r, 0)
	assert.Len(t, r.Messages, 2)
}

func TestLimitValidationResults_TruncatesWithErrors(t *testing.T) {
	r := &domain.Result{Errors: 5, Warnings: 115}
	for i := 0; i < 120; i++ {
		msgType := "warning"
		if i%24 == 23 {
			msgType = "error"
		}
		r.Messages = append(r.Messages, domain.Message{"type": msgType, "id": []any{fmt.Sprint(i)}})
	}

	processing.LimitValidationResults(r, 100)

	require.Len(t, r.Messages, 101)
	first := r.Messages[0]
	assert.Equal(t, "error", first.Type())
	assert.Contains(t, first["message"], "20")
	assert.Equal(t, []string{"validation", "messages", "truncated"}, first["id"])
	assert.Equal(t, 1, first["tier"])
	assert.Nil(t, first["compatibility_type"])
	for _, m := range r.Messages[1:6] {
		assert.Equal(t, "error", m.Type(), "errors are kept first")
	}
	assert.Equal(t, 5, r.Errors, "totals untouched")
}

func TestLimitValidationResults_UsesMessageTypesWhenTotalsUnset(t *testing.T) {
	r := &domain.Result{}
	for i := 0; i < 3; i++ {
		r.Messages = append(r.Messages, domain.Message{"type": "warning"})
	}
	r.Messages = append(r.Messages, domain.Message{"type": "error"})

	processing.LimitValidationResults(r, 2)
	assert.Equal(t, "error", r.Messages[0].Type())
}

func TestLimitValidationResults_PriorityOrder(t *testing.T) {
	r := &domain.Result{Messages: []domain.Message{
		{"type": "notice", "id": "notice"},
		{"type": "warning", "id": "warning"},
		{"type": "warning", "signing_severity": "high", "id": "signing"},
		{"type": "other", "id": "other"},
		{"type": "error", "id": "error"},
	}}

	processing.LimitValidationResults(r, 4)

	var ids []any
	for _, m := range r.Messages[1:] {
		ids = append(ids, m["id"])
	}
	assert.Equal(t, []any{"error", "signing", "warning", "notice"}, ids)
	assert.Equal(t, "error", r.Messages[0].Type(), "present errors raise the truncation type")
}

func TestLimitValidationResults_EmptySigningSeverityIsPlain(t *testing.T) {
	r := &domain.Result{Messages: []domain.Message{
		{"type": "warning", "signing_severity": "", "id": "blank"},
		{"type": "warning", "signing_severity": "low", "id": "signing"},
		{"type": "error", "id": "error"},
	}}

	processing.LimitValidationResults(r, 2)

	var ids []any
	for _, m := range r.Messages[1:] {
		ids = append(ids, m["id"])
	}
	assert.Equal(t, []any{"error", "signing"}, ids)
}

func TestTruncationMessage(t *testing.T) {
	kept := []domain.Message{{"type": "warning", "compatibility_type": "warning"}}

	m := processing.TruncationMessage(kept, domain.Counts{Warnings: 3}, 7)
	assert.Equal(t, "warning", m.Type())
	assert.Equal(t, "warning", m["compatibility_type"])
	assert.Contains(t, m["message"], "7 messages were truncated")
	assert.Equal(t, []string{}, m["description"])

	m = processing.TruncationMessage(nil, domain.Counts{}, 1)
	assert.Equal(t, "notice", m.Type())
	assert.Nil(t, m["compatibility_type"])
}

func TestMangleCompatibilityMessages(t *testing.T) {
	r := &domain.Result{
		Errors: 9, Warnings: 9, Notices: 9,
		CompatibilitySummary: domain.Counts{Errors: 1, Warnings: 2, Notices: 0},
		Messages: []domain.Message{
			{"type": "notice", "compatibility_type": "error"},
			{"type": "warning"},
			{"type": "notice", "compatibility_type": nil},
		},
	}

	processing.MangleCompatibilityMessages(r)

	assert.Equal(t, domain.Counts{Errors: 1, Warnings: 2}, r.Counts())
	assert.Equal(t, "error", r.Messages[0].Type())
	assert.Equal(t, "warning", r.Messages[1].Type())
	assert.Equal(t, "notice", r.Messages[2].Type())
}
