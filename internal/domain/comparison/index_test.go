package comparison_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonhub/devhub/internal/domain"
	"github.com/addonhub/devhub/internal/domain/comparison"
)

func TestBuildIndex_SkipsUnkeyable(t *testing.T) {
	idx := comparison.BuildIndex([]domain.Message{
		{"id": []any{"a"}, "context": []any{"x"}},
		{"id": []any{"b"}},
		{"id": []any{"c"}, "context": []any{}},
	})
	assert.Len(t, idx, 1)
}

func TestBuildIndex_LastWins(t *testing.T) {
	first := domain.Message{"id": []any{"a"}, "context": []any{"x"}, "message": "first"}
	second := domain.Message{"id": []any{"a"}, "context": []any{"x"}, "message": "second"}

	idx := comparison.BuildIndex([]domain.Message{first, second})
	require.Len(t, idx, 1)

	got, ok := idx.Lookup(domain.Message{"id": []any{"a"}, "context": []any{"x"}})
	require.True(t, ok)
	assert.Equal(t, "second", got["message"])
}

func TestIndex_LookupUnkeyable(t *testing.T) {
	idx := comparison.BuildIndex([]domain.Message{{"id": []any{"a"}, "context": []any{"x"}}})

	_, ok := idx.Lookup(domain.Message{"id": []any{"a"}})
	assert.False(t, ok)
}

func TestBuildIndex_Empty(t *testing.T) {
	assert.Empty(t, comparison.BuildIndex(nil))
}
