package comparison

import "github.com/addonhub/devhub/internal/domain"

// IsIgnorable reports whether a message should not count against automatic
// approval. An explicit ignore_duplicates value always wins; otherwise only
// non-error messages of trivial or low signing severity are ignorable.
func IsIgnorable(m domain.Message) bool {
	if v, set := m.IgnoreDuplicates(); set {
		return v
	}
	if m.Type() == domain.TypeError {
		return false
	}
	severity, _ := m.SigningSeverity()
	return severity == domain.SigningTrivial || severity == domain.SigningLow
}

// inheritedIgnoreVerdict judges the previous run's message. Its verdict is
// what a matched message in the new run displays as "ignored".
func inheritedIgnoreVerdict(previous domain.Message) bool {
	return IsIgnorable(previous)
}

// selfIgnoreDefault judges a message on its own data. It seeds
// ignore_duplicates so the next run has a decision to inherit.
func selfIgnoreDefault(m domain.Message) bool {
	return IsIgnorable(m)
}
