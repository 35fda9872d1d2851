package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message types, used for display and counting.
const (
	TypeError   = "error"
	TypeWarning = "warning"
	TypeNotice  = "notice"
)

// Signing severities, lowest first.
const (
	SigningTrivial = "trivial"
	SigningLow     = "low"
	SigningMedium  = "medium"
	SigningHigh    = "high"
)

// SigningSeverities enumerates every severity tallied in a SigningSummary.
var SigningSeverities = []string{SigningTrivial, SigningLow, SigningMedium, SigningHigh}

// Message field names.
const (
	FieldID                = "id"
	FieldUID               = "uid"
	FieldContext           = "context"
	FieldContextData       = "context_data"
	FieldFile              = "file"
	FieldType              = "type"
	FieldTier              = "tier"
	FieldMessage           = "message"
	FieldDescription       = "description"
	FieldSigningHelp       = "signing_help"
	FieldSigningSeverity   = "signing_severity"
	FieldIgnoreDuplicates  = "ignore_duplicates"
	FieldCompatibilityType = "compatibility_type"
	FieldMatched           = "matched"
	FieldIgnored           = "ignored"
)

// Message is a single finding reported by the static-analysis tool. Messages
// carry arbitrary extra fields, so they are kept as decoded JSON objects and
// read through the typed accessors below.
type Message map[string]any

// Type returns the display severity (error, warning or notice).
func (m Message) Type() string {
	s, _ := m[FieldType].(string)
	return s
}

// Tier returns the analysis tier the message was produced at.
// The second value is false when the message carries no tier.
func (m Message) Tier() (int, bool) {
	v, ok := m[FieldTier]
	if !ok || v == nil {
		return 0, false
	}
	return AsInt(v), true
}

// SigningSeverity returns the signing severity. A null or empty value counts
// as absent.
func (m Message) SigningSeverity() (string, bool) {
	s, _ := m[FieldSigningSeverity].(string)
	return s, s != ""
}

// IgnoreDuplicates returns the explicit ignore override and whether one is set.
// A null value counts as unset.
func (m Message) IgnoreDuplicates() (value, set bool) {
	value, set = m[FieldIgnoreDuplicates].(bool)
	return value, set
}

func (m Message) SetIgnoreDuplicates(v bool) { m[FieldIgnoreDuplicates] = v }

// Ignored reports whether the comparator marked the message as ignored.
func (m Message) Ignored() bool {
	b, _ := m[FieldIgnored].(bool)
	return b
}

// CompatibilityType returns the compatibility-specific type, or "" when the
// message did not come from a compatibility check.
func (m Message) CompatibilityType() string {
	s, _ := m[FieldCompatibilityType].(string)
	return s
}

// Clone returns a shallow copy of the message.
func (m Message) Clone() Message {
	out := make(Message, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MessageKey is the canonical JSON encoding of a message's identity. Two
// messages from different result sets represent the same finding if and only
// if their keys are equal.
type MessageKey string

// Counts holds per-type message totals.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Notices  int `json:"notices"`
}

// SigningSummary counts signing-relevant messages per signing severity.
type SigningSummary struct {
	Trivial int `json:"trivial"`
	Low     int `json:"low"`
	Medium  int `json:"medium"`
	High    int `json:"high"`
}

// Increment adds one to the bucket for severity. Unknown severities are not
// counted and Increment reports false.
func (s *SigningSummary) Increment(severity string) bool {
	switch severity {
	case SigningTrivial:
		s.Trivial++
	case SigningLow:
		s.Low++
	case SigningMedium:
		s.Medium++
	case SigningHigh:
		s.High++
	default:
		return false
	}
	return true
}

// Get returns the count for severity, 0 for unknown severities.
func (s SigningSummary) Get(severity string) int {
	switch severity {
	case SigningTrivial:
		return s.Trivial
	case SigningLow:
		return s.Low
	case SigningMedium:
		return s.Medium
	case SigningHigh:
		return s.High
	}
	return 0
}

func (s SigningSummary) Total() int { return s.Trivial + s.Low + s.Medium + s.High }

// Result is the full output of one validation run.
type Result struct {
	Success               bool            `json:"success"`
	Errors                int             `json:"errors"`
	Warnings              int             `json:"warnings"`
	Notices               int             `json:"notices"`
	Messages              []Message       `json:"messages"`
	EndingTier            int             `json:"ending_tier"`
	DetectedType          string          `json:"detected_type,omitempty"`
	CompatibilitySummary  Counts          `json:"compatibility_summary"`
	SigningSummary        *SigningSummary `json:"signing_summary,omitempty"`
	SigningIgnoredSummary *SigningSummary `json:"signing_ignored_summary,omitempty"`
	PassedAutoValidation  *bool           `json:"passed_auto_validation,omitempty"`
	Metadata              map[string]any  `json:"metadata,omitempty"`

	// Extra keeps top-level fields this package does not model (message_tree
	// and the like) so they survive a decode/encode round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

var resultFields = map[string]bool{
	"success": true, "errors": true, "warnings": true, "notices": true,
	"messages": true, "ending_tier": true, "detected_type": true,
	"compatibility_summary": true, "signing_summary": true,
	"signing_ignored_summary": true, "passed_auto_validation": true,
	"metadata": true,
}

type resultAlias Result

func (r Result) MarshalJSON() ([]byte, error) {
	alias := resultAlias(r)
	if alias.Messages == nil {
		alias.Messages = []Message{}
	}
	data, err := json.Marshal(alias)
	if err != nil || len(r.Extra) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		if _, known := fields[k]; !known {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var alias resultAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for k := range fields {
		if resultFields[k] {
			delete(fields, k)
		}
	}
	if len(fields) > 0 {
		alias.Extra = fields
	}

	*r = Result(alias)
	return nil
}

// Counts returns the result's top-level error/warning/notice totals.
func (r *Result) Counts() Counts {
	return Counts{Errors: r.Errors, Warnings: r.Warnings, Notices: r.Notices}
}

// PassesAutoValidation reports whether every signing-relevant message was
// ignored, i.e. nothing is left counted in the signing summary.
func (r *Result) PassesAutoValidation() bool {
	return r.SigningSummary == nil || r.SigningSummary.Total() == 0
}

// ResultFromMap decodes a JSON-shaped object into a Result.
func ResultFromMap(raw map[string]any) (*Result, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding validation: %w", err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding validation: %w", err)
	}
	return &r, nil
}

// ExceptionResult returns the canned result shown when validation could not
// be completed.
func ExceptionResult() *Result {
	return &Result{
		Success:      false,
		Errors:       1,
		Messages:     []Message{exceptionMessage()},
		DetectedType: "extension",
		EndingTier:   5,
		Metadata:     map[string]any{"listed": true},
	}
}

func exceptionMessage() Message {
	return Message{
		FieldID:      []string{"validator", "unexpected_exception"},
		FieldUID:     NewUID(),
		FieldMessage: "Sorry, we couldn't load your add-on.",
		FieldDescription: []string{
			"Validation was unable to complete successfully due to an unexpected error.",
			"The error has been logged, please try again later.",
		},
		FieldType: TypeError,
		FieldTier: 1,
	}
}

// NewUID returns a fresh message identifier in hex form.
func NewUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Channel is the distribution channel a package version is submitted to.
type Channel string

const (
	ChannelListed   Channel = "listed"
	ChannelUnlisted Channel = "unlisted"
)

// StoredAnnotation is a persisted decision on whether a message should be
// ignored for one package version. MessageKey holds the stored text as-is and
// may not decode if the row was corrupted.
type StoredAnnotation struct {
	FileHash         string `json:"file_hash"`
	MessageKey       string `json:"message_key"`
	IgnoreDuplicates *bool  `json:"ignore_duplicates"`
}

// StoredValidation is the annotated result persisted for one package version.
type StoredValidation struct {
	FileHash  string    `json:"file_hash"`
	AddonGUID string    `json:"addon_guid,omitempty"`
	Version   string    `json:"version,omitempty"`
	Channel   Channel   `json:"channel"`
	Approved  bool      `json:"approved"`
	Sequence  uint64    `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
	Result    *Result   `json:"result"`
}

// AsInt converts a decoded JSON number (or a Go integer) to int.
func AsInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, _ := n.Float64()
			return int(f)
		}
		return int(i)
	}
	return 0
}
