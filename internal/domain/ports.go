package domain

import "context"

// AnnotationReader reads stored ignore annotations for one package version.
type AnnotationReader interface {
	AnnotationsFor(ctx context.Context, fileHash string) ([]StoredAnnotation, error)
}

// AnnotationStore persists reviewer annotations keyed by (file hash, message key).
type AnnotationStore interface {
	AnnotationReader

	// PutAnnotation records an explicit reviewer decision, replacing any
	// previous decision for the same key.
	PutAnnotation(ctx context.Context, a StoredAnnotation) error

	// CopyAnnotations copies every annotation of fromHash onto toHash.
	// Annotations already present for toHash are kept. It returns the number
	// of annotations copied.
	CopyAnnotations(ctx context.Context, fromHash, toHash string) (int, error)
}

// ResultStore persists annotated validation results keyed by file hash.
type ResultStore interface {
	// SaveResult stores v. It returns ErrResultExists if a result is already
	// stored for v.FileHash.
	SaveResult(ctx context.Context, v *StoredValidation) error
	LoadResult(ctx context.Context, fileHash string) (*StoredValidation, error)
	ResultsForAddon(ctx context.Context, addonGUID string) ([]StoredValidation, error)
	MarkApproved(ctx context.Context, fileHash string) error
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}
