package processing

import (
	"github.com/addonhub/devhub/internal/domain"
)

// Options controls Process.
type Options struct {
	Listed          bool
	IsCompatibility bool
	// MessageLimit caps the number of displayed messages; zero disables it.
	MessageLimit int
	// Compare, when set, annotates the normalized result before it is
	// truncated and escaped. It is typically a Comparator's CompareResults.
	Compare func(*domain.Result) *domain.Result
}

// Process runs the whole display pipeline over raw tool output: normalize,
// mangle compatibility messages, compare, set the ending tier, truncate and
// escape.
func Process(raw map[string]any, opts Options) (*domain.Result, error) {
	r, err := Normalize(raw, opts.Listed, opts.IsCompatibility)
	if err != nil {
		return nil, err
	}
	if opts.Compare != nil {
		r = opts.Compare(r)
	}
	Finalize(r, opts.MessageLimit)
	return r, nil
}

// Normalize converts raw tool output into a Result, mangling compatibility
// messages when isCompatibility is set.
func Normalize(raw map[string]any, listed, isCompatibility bool) (*domain.Result, error) {
	fixed, err := FixAddonsLinterOutput(raw, listed)
	if err != nil {
		return nil, err
	}
	r, err := domain.ResultFromMap(fixed)
	if err != nil {
		return nil, err
	}
	if isCompatibility {
		MangleCompatibilityMessages(r)
	}
	return r, nil
}

// Finalize prepares an annotated result for display. It must run exactly
// once per result: escaping twice would double-escape.
func Finalize(r *domain.Result, limit int) {
	SetEndingTier(r)
	LimitValidationResults(r, limit)
	HtmlifyValidation(r)
}

// SetEndingTier fills in ending_tier from the deepest message tier when the
// result does not already carry a non-zero value. Messages without a tier
// count as tier -1, so a result whose messages carry no tier ends at -1.
func SetEndingTier(r *domain.Result) {
	if r.EndingTier != 0 || len(r.Messages) == 0 {
		return
	}
	for i, m := range r.Messages {
		tier, ok := m.Tier()
		if !ok {
			tier = -1
		}
		if i == 0 || tier > r.EndingTier {
			r.EndingTier = tier
		}
	}
}
