package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonhub/devhub/internal/application"
	"github.com/addonhub/devhub/internal/domain"
	"github.com/addonhub/devhub/internal/domain/comparison"
)

func TestAnnotationService_Annotate(t *testing.T) {
	f := newFixture(t, domain.DefaultConfig())
	ctx := context.Background()

	msg := domain.Message{"id": []any{"a"}, "context": []any{"x"}, "signing_severity": "medium"}
	ignore := true
	key, err := f.annotations.Annotate(ctx, "h1", msg, &ignore)
	require.NoError(t, err)

	want, _ := comparison.ComputeKey(msg)
	assert.Equal(t, want, key)

	got, err := f.annotations.List(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, string(want), got[0].MessageKey)
	assert.True(t, *got[0].IgnoreDuplicates)
}

func TestAnnotationService_LastReviewerDecisionWins(t *testing.T) {
	f := newFixture(t, domain.DefaultConfig())
	ctx := context.Background()

	msg := domain.Message{"id": []any{"a"}, "context": []any{"x"}}
	yes, no := true, false
	_, err := f.annotations.Annotate(ctx, "h1", msg, &yes)
	require.NoError(t, err)
	_, err = f.annotations.Annotate(ctx, "h1", msg, &no)
	require.NoError(t, err)

	got, err := f.annotations.List(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, *got[0].IgnoreDuplicates)
}

func TestAnnotationService_RejectsUnkeyableMessages(t *testing.T) {
	f := newFixture(t, domain.DefaultConfig())

	_, err := f.annotations.Annotate(context.Background(), "h1", domain.Message{"id": []any{"a"}}, nil)
	assert.ErrorIs(t, err, domain.ErrNotAnnotatable)
}

func TestAnnotationService_AnnotateStoredOutOfRange(t *testing.T) {
	f := newFixture(t, domain.DefaultConfig())
	ctx := context.Background()

	_, err := f.validations.Validate(ctx, application.ValidateRequest{Raw: rawValidation(), FileHash: "h1"})
	require.NoError(t, err)

	_, err = f.annotations.AnnotateStored(ctx, "h1", 7, nil)
	assert.ErrorContains(t, err, "out of range")

	_, err = f.annotations.AnnotateStored(ctx, "h1", 2, nil)
	assert.ErrorIs(t, err, domain.ErrNotAnnotatable)
}

func TestAnnotationService_InheritFirstWriteWins(t *testing.T) {
	f := newFixture(t, domain.DefaultConfig())
	ctx := context.Background()

	msg := domain.Message{"id": []any{"a"}, "context": []any{"x"}}
	yes, no := true, false
	_, err := f.annotations.Annotate(ctx, "old", msg, &yes)
	require.NoError(t, err)
	_, err = f.annotations.Annotate(ctx, "new", msg, &no)
	require.NoError(t, err)

	n, err := f.annotations.Inherit(ctx, "old", "new")
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := f.annotations.List(ctx, "new")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, *got[0].IgnoreDuplicates)
}
