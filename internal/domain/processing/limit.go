package processing

import (
	"fmt"
	"sort"

	"github.com/addonhub/devhub/internal/domain"
)

// TruncatedMessageID identifies the synthetic message added on truncation.
var TruncatedMessageID = []string{"validation", "messages", "truncated"}

// MangleCompatibilityMessages makes a compatibility-only check display its
// compatibility severities: totals come from the compatibility summary and
// each compatibility message takes its compatibility type as its type.
func MangleCompatibilityMessages(r *domain.Result) {
	r.Errors = r.CompatibilitySummary.Errors
	r.Warnings = r.CompatibilitySummary.Warnings
	r.Notices = r.CompatibilitySummary.Notices

	for _, m := range r.Messages {
		if ct := m.CompatibilityType(); ct != "" {
			m[domain.FieldType] = ct
		}
	}
}

// LimitValidationResults keeps at most limit messages, preferring the most
// severe, and prepends a message saying how many were dropped. The result's
// error/warning/notice totals are left untouched.
func LimitValidationResults(r *domain.Result, limit int) {
	if limit <= 0 || len(r.Messages) <= limit {
		return
	}

	counts := presentCounts(r)
	sort.SliceStable(r.Messages, func(i, j int) bool {
		return messagePriority(r.Messages[i]) < messagePriority(r.Messages[j])
	})

	leftover := len(r.Messages) - limit
	kept := r.Messages[:limit:limit]

	messages := make([]domain.Message, 0, limit+1)
	messages = append(messages, TruncationMessage(kept, counts, leftover))
	r.Messages = append(messages, kept...)
}

// messagePriority orders plain errors first, then anything carrying a
// signing severity, then warnings and notices.
func messagePriority(m domain.Message) int {
	if _, ok := m.SigningSeverity(); ok {
		return 1
	}
	switch m.Type() {
	case domain.TypeError:
		return 0
	case domain.TypeWarning:
		return 2
	case domain.TypeNotice:
		return 3
	}
	return 4
}

// presentCounts returns the result totals, raised to the number of messages of
// each type when the totals undercount them.
func presentCounts(r *domain.Result) domain.Counts {
	var seen domain.Counts
	for _, m := range r.Messages {
		switch m.Type() {
		case domain.TypeError:
			seen.Errors++
		case domain.TypeWarning:
			seen.Warnings++
		case domain.TypeNotice:
			seen.Notices++
		}
	}
	counts := r.Counts()
	counts.Errors = max(counts.Errors, seen.Errors)
	counts.Warnings = max(counts.Warnings, seen.Warnings)
	counts.Notices = max(counts.Notices, seen.Notices)
	return counts
}

// TruncationMessage builds the message announcing that leftover messages were
// dropped. Its type is the most severe type present in counts; it carries a
// compatibility type only when one of the kept messages does.
func TruncationMessage(kept []domain.Message, counts domain.Counts, leftover int) domain.Message {
	msgType := domain.TypeNotice
	switch {
	case counts.Errors > 0:
		msgType = domain.TypeError
	case counts.Warnings > 0:
		msgType = domain.TypeWarning
	}

	var compatType any
	for _, m := range kept {
		if m.CompatibilityType() != "" {
			compatType = msgType
			break
		}
	}

	return domain.Message{
		domain.FieldTier: 1,
		domain.FieldType: msgType,
		domain.FieldID:   append([]string(nil), TruncatedMessageID...),
		domain.FieldMessage: fmt.Sprintf(
			"Validation generated too many errors/warnings so %d messages were truncated. "+
				"After addressing the visible messages, you'll be able to see the others.", leftover),
		domain.FieldDescription:       []string{},
		domain.FieldCompatibilityType: compatType,
	}
}
