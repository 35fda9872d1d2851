package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mohae/deepcopy"

	"github.com/addonhub/devhub/internal/domain"
	"github.com/addonhub/devhub/internal/domain/comparison"
	"github.com/addonhub/devhub/internal/domain/processing"
	"github.com/addonhub/devhub/internal/domain/versions"
)

// ValidateRequest describes one package version to validate.
type ValidateRequest struct {
	// Raw is the analysis tool output, in canonical or linter shape.
	Raw map[string]any
	// FileHash identifies the package version. Required.
	FileHash string
	// PreviousFileHash names the predecessor explicitly. When empty the
	// predecessor is looked up from AddonGUID and Version.
	PreviousFileHash string
	AddonGUID        string
	Version          string
	// Channel defaults to the configured channel when empty.
	Channel         domain.Channel
	IsCompatibility bool
}

// ValidateResponse carries both forms of a processed result.
type ValidateResponse struct {
	FileHash         string `json:"file_hash"`
	PreviousFileHash string `json:"previous_file_hash,omitempty"`
	// Annotated is the result as persisted: compared but neither truncated
	// nor escaped.
	Annotated *domain.Result `json:"annotated"`
	// Display is the truncated, escaped result.
	Display              *domain.Result `json:"display"`
	InheritedAnnotations int            `json:"inherited_annotations"`
	SkippedAnnotations   int            `json:"skipped_annotations"`
	// Stored is false when a result was already stored for FileHash.
	Stored bool `json:"stored"`
}

// ValidationService runs the validation pipeline and owns the stored results.
type ValidationService struct {
	results     domain.ResultStore
	annotations domain.AnnotationStore
	cfg         domain.Config
	logger      *slog.Logger
	metrics     *Metrics
}

// NewValidationService creates a new ValidationService with all required dependencies.
func NewValidationService(
	results domain.ResultStore,
	annotations domain.AnnotationStore,
	cfg domain.Config,
	logger *slog.Logger,
	metrics *Metrics,
) *ValidationService {
	return &ValidationService{
		results: results, annotations: annotations, cfg: cfg,
		logger: logger, metrics: metrics,
	}
}

// Validate normalizes raw tool output, compares it against the predecessor
// version, persists the annotated result and returns it with its display form.
func (s *ValidationService) Validate(ctx context.Context, req ValidateRequest) (*ValidateResponse, error) {
	if req.FileHash == "" {
		return nil, fmt.Errorf("validating: file hash is required")
	}
	channel := req.Channel
	if channel == "" {
		channel = s.cfg.DefaultChannel()
	}
	log := s.logger.With("file_hash", req.FileHash)

	// 1. Normalize
	r, err := processing.Normalize(req.Raw, channel == domain.ChannelListed, req.IsCompatibility)
	if err != nil {
		s.recordFailure(err)
		return nil, fmt.Errorf("normalizing validation: %w", err)
	}

	// 2. Resolve predecessor
	prev, err := s.resolvePrevious(ctx, req, channel)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	resp := &ValidateResponse{FileHash: req.FileHash}

	// 3. Inherit annotations and compare
	if prev != nil {
		resp.PreviousFileHash = prev.FileHash
		log = log.With("previous_file_hash", prev.FileHash)

		resp.InheritedAnnotations, err = s.annotations.CopyAnnotations(ctx, prev.FileHash, req.FileHash)
		if err != nil {
			s.recordFailure(err)
			return nil, fmt.Errorf("inheriting annotations: %w", err)
		}

		// The comparator writes annotation defaults into the baseline; keep
		// the stored copy untouched.
		baseline, _ := deepcopy.Copy(prev.Result).(*domain.Result)
		cmp := comparison.NewComparator(baseline, comparison.WithLogger(log))
		resp.SkippedAnnotations, err = cmp.AnnotateResults(ctx, s.annotations, prev.FileHash)
		if err != nil {
			s.recordFailure(err)
			return nil, fmt.Errorf("annotating previous results: %w", err)
		}
		s.metrics.AnnotationsSkipped.Add(float64(resp.SkippedAnnotations))

		cmp.CompareResults(r)
		s.metrics.MessagesMatched.Add(float64(countMatched(r)))
	} else if r.SigningSummary == nil {
		r.SigningSummary = &domain.SigningSummary{}
	}

	passed := r.PassesAutoValidation()
	r.PassedAutoValidation = &passed

	// 4. Persist
	err = s.results.SaveResult(ctx, &domain.StoredValidation{
		FileHash:  req.FileHash,
		AddonGUID: req.AddonGUID,
		Version:   req.Version,
		Channel:   channel,
		Result:    r,
	})
	switch {
	case errors.Is(err, domain.ErrResultExists):
		log.Warn("validation already stored, keeping the first result")
		s.metrics.Validations.WithLabelValues(OutcomeConflict).Inc()
	case err != nil:
		s.recordFailure(err)
		return nil, fmt.Errorf("storing validation: %w", err)
	default:
		resp.Stored = true
		s.metrics.Validations.WithLabelValues(OutcomeStored).Inc()
	}

	// 5. Display
	resp.Annotated = r
	resp.Display = s.display(r)

	log.Info("validation processed",
		"messages", len(r.Messages),
		"passed_auto_validation", passed,
		"inherited_annotations", resp.InheritedAnnotations,
		"stored", resp.Stored,
	)
	return resp, nil
}

// Compare annotates next against previous without touching storage.
func (s *ValidationService) Compare(ctx context.Context, previous, next map[string]any, isCompatibility bool) (*ValidateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	listed := s.cfg.Listed

	prev, err := processing.Normalize(previous, listed, isCompatibility)
	if err != nil {
		s.recordFailure(err)
		return nil, fmt.Errorf("normalizing previous validation: %w", err)
	}
	r, err := processing.Normalize(next, listed, isCompatibility)
	if err != nil {
		s.recordFailure(err)
		return nil, fmt.Errorf("normalizing validation: %w", err)
	}

	comparison.NewComparator(prev, comparison.WithLogger(s.logger)).CompareResults(r)
	s.metrics.MessagesMatched.Add(float64(countMatched(r)))

	passed := r.PassesAutoValidation()
	r.PassedAutoValidation = &passed
	s.metrics.Validations.WithLabelValues(OutcomeCompared).Inc()

	return &ValidateResponse{Annotated: r, Display: s.display(r)}, nil
}

// Approve marks a stored validation approved so later versions compare
// against it.
func (s *ValidationService) Approve(ctx context.Context, fileHash string) error {
	if err := s.results.MarkApproved(ctx, fileHash); err != nil {
		return fmt.Errorf("approving %s: %w", fileHash, err)
	}
	s.logger.Info("validation approved", "file_hash", fileHash)
	return nil
}

// Stored returns the stored validation for fileHash along with its display form.
func (s *ValidationService) Stored(ctx context.Context, fileHash string) (*domain.StoredValidation, *domain.Result, error) {
	v, err := s.results.LoadResult(ctx, fileHash)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", fileHash, err)
	}
	var display *domain.Result
	if v.Result != nil {
		display = s.display(v.Result)
	}
	return v, display, nil
}

// History lists the stored validations of one add-on.
func (s *ValidationService) History(ctx context.Context, addonGUID string) ([]domain.StoredValidation, error) {
	vs, err := s.results.ResultsForAddon(ctx, addonGUID)
	if err != nil {
		return nil, fmt.Errorf("listing validations for %s: %w", addonGUID, err)
	}
	return vs, nil
}

func (s *ValidationService) resolvePrevious(ctx context.Context, req ValidateRequest, channel domain.Channel) (*domain.StoredValidation, error) {
	if req.PreviousFileHash != "" {
		prev, err := s.results.LoadResult(ctx, req.PreviousFileHash)
		if err != nil {
			return nil, fmt.Errorf("loading previous validation %s: %w", req.PreviousFileHash, err)
		}
		return prev, nil
	}
	if req.AddonGUID == "" || req.Version == "" {
		return nil, nil
	}

	candidates, err := s.results.ResultsForAddon(ctx, req.AddonGUID)
	if err != nil {
		return nil, fmt.Errorf("listing validations for %s: %w", req.AddonGUID, err)
	}
	prev, ok := versions.FindPrevious(candidates, versions.Target{
		FileHash:  req.FileHash,
		AddonGUID: req.AddonGUID,
		Version:   req.Version,
		Channel:   channel,
	})
	if !ok {
		return nil, nil
	}
	return &prev, nil
}

// display returns a truncated, escaped copy of r.
func (s *ValidationService) display(r *domain.Result) *domain.Result {
	out, _ := deepcopy.Copy(r).(*domain.Result)
	if limit := s.cfg.MessageLimit; limit > 0 && len(out.Messages) > limit {
		s.metrics.MessagesTruncated.Add(float64(len(out.Messages) - limit))
	}
	processing.Finalize(out, s.cfg.MessageLimit)
	return out
}

func (s *ValidationService) recordFailure(err error) {
	outcome := OutcomeError
	if errors.Is(err, domain.ErrMalformedLinterOutput) {
		outcome = OutcomeMalformed
	}
	s.metrics.Validations.WithLabelValues(outcome).Inc()
}

func countMatched(r *domain.Result) int {
	n := 0
	for _, m := range r.Messages {
		if _, ok := m[domain.FieldMatched]; ok {
			n++
		}
	}
	return n
}
