package comparison

import "github.com/addonhub/devhub/internal/domain"

// Index maps message keys to the message carrying them.
type Index map[domain.MessageKey]domain.Message

// BuildIndex indexes messages by key. Messages without a key are skipped, and
// when two messages share a key the later one wins.
func BuildIndex(messages []domain.Message) Index {
	idx := make(Index, len(messages))
	for _, m := range messages {
		if key, ok := ComputeKey(m); ok {
			idx[key] = m
		}
	}
	return idx
}

// Lookup returns the indexed message with the same key as m.
func (idx Index) Lookup(m domain.Message) (domain.Message, bool) {
	key, ok := ComputeKey(m)
	if !ok {
		return nil, false
	}
	found, ok := idx[key]
	return found, ok
}
