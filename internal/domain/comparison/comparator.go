package comparison

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/addonhub/devhub/internal/domain"
)

// Comparator annotates a new result set against a previous one.
type Comparator struct {
	previous Index
	logger   *slog.Logger
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithLogger sets the logger used to report skipped annotations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Comparator) { c.logger = l }
}

// NewComparator indexes the messages of previous. A nil previous result gives
// a comparator that matches nothing.
func NewComparator(previous *domain.Result, opts ...Option) *Comparator {
	c := &Comparator{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(c)
	}
	if previous != nil {
		c.previous = BuildIndex(previous.Messages)
	} else {
		c.previous = Index{}
	}
	return c
}

// Messages returns the indexed messages of the previous result set.
func (c *Comparator) Messages() Index { return c.previous }

// MatchMessages decides whether two messages with equal keys are the same
// finding. Every key match is currently accepted.
func MatchMessages(previous, next domain.Message) bool {
	return true
}

// FindMatchingMessage returns the previous message matching m.
func (c *Comparator) FindMatchingMessage(m domain.Message) (domain.Message, bool) {
	prev, ok := c.previous.Lookup(m)
	if !ok || !MatchMessages(prev, m) {
		return nil, false
	}
	return prev, true
}

// CompareResults annotates every message of r with the previous message it
// matches and with its ignore verdict, then replaces r's signing summaries.
// r is modified in place and returned.
func (c *Comparator) CompareResults(r *domain.Result) *domain.Result {
	var counted, ignored domain.SigningSummary

	for _, m := range r.Messages {
		if prev, ok := c.FindMatchingMessage(m); ok {
			matched := prev.Clone()
			delete(matched, domain.FieldMatched)
			m[domain.FieldMatched] = matched

			if _, ok := m.SigningSeverity(); ok {
				m[domain.FieldIgnored] = inheritedIgnoreVerdict(prev)
			}
		}

		severity, ok := m.SigningSeverity()
		if !ok {
			continue
		}
		if _, set := m.IgnoreDuplicates(); !set {
			if _, keyed := ComputeKey(m); keyed {
				m.SetIgnoreDuplicates(selfIgnoreDefault(m))
			}
		}

		if m.Ignored() {
			ignored.Increment(severity)
		} else {
			counted.Increment(severity)
		}
	}

	r.SigningSummary = &counted
	r.SigningIgnoredSummary = &ignored
	return r
}

// AnnotateResults applies the stored annotations for fileHash to the
// previous messages, then defaults ignore_duplicates on every signing-relevant
// previous message still lacking one. Annotations whose key cannot be decoded
// are skipped and logged; the number skipped is returned.
func (c *Comparator) AnnotateResults(ctx context.Context, annotations domain.AnnotationReader, fileHash string) (int, error) {
	stored, err := annotations.AnnotationsFor(ctx, fileHash)
	if err != nil {
		return 0, fmt.Errorf("loading annotations for %s: %w", fileHash, err)
	}

	var skipped error
	for _, a := range stored {
		if a.IgnoreDuplicates == nil {
			continue
		}
		key, err := ParseMessageKey(a.MessageKey)
		if err != nil {
			skipped = multierr.Append(skipped, fmt.Errorf("annotation %q: %w", a.MessageKey, err))
			continue
		}
		if msg, ok := c.previous[key]; ok {
			msg.SetIgnoreDuplicates(*a.IgnoreDuplicates)
		}
	}

	skippedCount := len(multierr.Errors(skipped))
	if skipped != nil {
		c.logger.Warn("skipped corrupt annotations",
			"file_hash", fileHash,
			"count", skippedCount,
			"error", skipped,
		)
	}

	for _, msg := range c.previous {
		if _, set := msg.IgnoreDuplicates(); set {
			continue
		}
		if _, ok := msg.SigningSeverity(); ok {
			msg.SetIgnoreDuplicates(selfIgnoreDefault(msg))
		}
	}

	return skippedCount, nil
}
