package tui_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/addonhub/devhub/internal/adapters/outbound/tui"
	"github.com/addonhub/devhub/internal/domain"
)

func sampleResult() *domain.Result {
	passed := false
	return &domain.Result{
		Errors:     1,
		Warnings:   1,
		EndingTier: 3,
		Messages: []domain.Message{
			{"type": "error", "message": `see <a href="http://x.org" rel="nofollow">x.org</a>`, "file": "manifest.json"},
			{"type": "warning", "message": "eval is dangerous", "signing_severity": "high", "ignored": true},
		},
		SigningSummary:        &domain.SigningSummary{Medium: 2},
		SigningIgnoredSummary: &domain.SigningSummary{High: 1},
		PassedAutoValidation:  &passed,
	}
}

func TestRenderResult_ContainsTotals(t *testing.T) {
	output := tui.RenderResult(sampleResult())
	assert.Contains(t, output, "1 errors")
	assert.Contains(t, output, "1 warnings")
	assert.Contains(t, output, "0 notices")
	assert.Contains(t, output, "tier 3")
	assert.Contains(t, output, "FAILED")
}

func TestRenderResult_ContainsMessages(t *testing.T) {
	output := tui.RenderResult(sampleResult())
	assert.Contains(t, output, "manifest.json")
	assert.Contains(t, output, "see x.org")
	assert.NotContains(t, output, "<a ")
	assert.Contains(t, output, "(ignored)")
	assert.Contains(t, output, "signing:high")
}

func TestRenderResult_ContainsSigning(t *testing.T) {
	output := tui.RenderResult(sampleResult())
	assert.Contains(t, output, "medium 2/0")
	assert.Contains(t, output, "high 0/1")
	assert.Contains(t, output, "manual review required")
}

func TestRenderResult_Empty(t *testing.T) {
	output := tui.RenderResult(&domain.Result{Success: true})
	assert.Contains(t, output, "PASSED")
	assert.Contains(t, output, "No messages.")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "a <b> & c", tui.PlainText("a &lt;b&gt; &amp; c"))
	assert.Equal(t, "go www.x.org now", tui.PlainText(`go <a href="http://www.x.org" rel="nofollow">www.x.org</a> now`))
}

func TestRenderHistory(t *testing.T) {
	output := tui.RenderHistory([]domain.StoredValidation{
		{FileHash: "aaaaaaaaaaaaaaaaaaaa", Version: "1.0", Sequence: 1, Approved: true, Result: &domain.Result{}},
		{FileHash: "bbbb", Version: "2.0", Sequence: 2, Result: &domain.Result{Errors: 3}},
	})
	assert.Contains(t, output, "Validation History")
	assert.Contains(t, output, "aaaaaaaaaaaa")
	assert.NotContains(t, output, "aaaaaaaaaaaaa")
	assert.Contains(t, output, "approved")
	assert.Contains(t, output, "3 errors")
	assert.Less(t, strings.Index(output, "2.0"), strings.Index(output, "1.0"))
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No stored validations found.")
}
