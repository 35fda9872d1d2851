package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/addonhub/devhub/internal/domain"
	"github.com/addonhub/devhub/internal/domain/comparison"
)

// AnnotationService records reviewer decisions on individual messages.
type AnnotationService struct {
	annotations domain.AnnotationStore
	results     domain.ResultStore
	logger      *slog.Logger
}

func NewAnnotationService(annotations domain.AnnotationStore, results domain.ResultStore, logger *slog.Logger) *AnnotationService {
	return &AnnotationService{annotations: annotations, results: results, logger: logger}
}

// Annotate stores ignoreDuplicates for m under fileHash, replacing any earlier
// decision. A nil ignoreDuplicates clears the override. Messages without a
// key return domain.ErrNotAnnotatable.
func (s *AnnotationService) Annotate(ctx context.Context, fileHash string, m domain.Message, ignoreDuplicates *bool) (domain.MessageKey, error) {
	key, ok := comparison.ComputeKey(m)
	if !ok {
		return "", domain.ErrNotAnnotatable
	}
	err := s.annotations.PutAnnotation(ctx, domain.StoredAnnotation{
		FileHash:         fileHash,
		MessageKey:       string(key),
		IgnoreDuplicates: ignoreDuplicates,
	})
	if err != nil {
		return "", fmt.Errorf("storing annotation: %w", err)
	}
	s.logger.Info("annotation stored", "file_hash", fileHash, "message_key", string(key))
	return key, nil
}

// AnnotateStored annotates the message at index in the stored result for
// fileHash.
func (s *AnnotationService) AnnotateStored(ctx context.Context, fileHash string, index int, ignoreDuplicates *bool) (domain.MessageKey, error) {
	v, err := s.results.LoadResult(ctx, fileHash)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", fileHash, err)
	}
	if v.Result == nil || index < 0 || index >= len(v.Result.Messages) {
		return "", fmt.Errorf("message index %d out of range", index)
	}
	return s.Annotate(ctx, fileHash, v.Result.Messages[index], ignoreDuplicates)
}

// Inherit copies the annotations of fromHash onto toHash, keeping any that
// toHash already has.
func (s *AnnotationService) Inherit(ctx context.Context, fromHash, toHash string) (int, error) {
	n, err := s.annotations.CopyAnnotations(ctx, fromHash, toHash)
	if err != nil {
		return 0, fmt.Errorf("copying annotations from %s: %w", fromHash, err)
	}
	return n, nil
}

// List returns the annotations stored for fileHash.
func (s *AnnotationService) List(ctx context.Context, fileHash string) ([]domain.StoredAnnotation, error) {
	as, err := s.annotations.AnnotationsFor(ctx, fileHash)
	if err != nil {
		return nil, fmt.Errorf("listing annotations for %s: %w", fileHash, err)
	}
	return as, nil
}
