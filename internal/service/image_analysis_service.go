package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-skin-inspector/internal/analyzer"
	apperrors "go-skin-inspector/internal/errors"
	"go-skin-inspector/internal/observer"
	"go-skin-inspector/internal/repository"
	"go-skin-inspector/internal/storage"
	"go-skin-inspector/pkg/models"
)

const rawResponse = "Analysis completed successfully"

// SkinAnalysisService analyzes uploaded or remote images
type SkinAnalysisService interface {
	AnalyzeUpload(ctx context.Context, filename string, data []byte) (*models.SkinAnalysisResponse, error)
	AnalyzeURL(ctx context.Context, imageURL string) (*models.SkinAnalysisResponse, error)
	// AnalyzeDetailed is AnalyzeUpload plus the raw feature vector
	AnalyzeDetailed(ctx context.Context, filename string, data []byte) (*models.SkinAnalysisResponse, error)

	ValidateImageURL(imageURL string) error
}

type skinAnalysisService struct {
	imageRepo       repository.ImageRepository
	analyzer        analyzer.SkinAnalyzer
	publisher       observer.Subject
	analysisTimeout time.Duration
}

// NewSkinAnalysisService creates the service; publisher may be nil
func NewSkinAnalysisService(
	imageRepository repository.ImageRepository,
	skinAnalyzer analyzer.SkinAnalyzer,
	publisher observer.Subject,
	analysisTimeout time.Duration,
) SkinAnalysisService {
	if publisher == nil {
		publisher = observer.NewEventPublisher()
	}
	return &skinAnalysisService{
		imageRepo:       imageRepository,
		analyzer:        skinAnalyzer,
		publisher:       publisher,
		analysisTimeout: analysisTimeout,
	}
}

func (s *skinAnalysisService) AnalyzeUpload(ctx context.Context, filename string, data []byte) (*models.SkinAnalysisResponse, error) {
	return s.analyzeBytes(ctx, uuid.NewString(), filename, data, false)
}

func (s *skinAnalysisService) AnalyzeDetailed(ctx context.Context, filename string, data []byte) (*models.SkinAnalysisResponse, error) {
	return s.analyzeBytes(ctx, uuid.NewString(), filename, data, true)
}

func (s *skinAnalysisService) AnalyzeURL(ctx context.Context, imageURL string) (*models.SkinAnalysisResponse, error) {
	id := uuid.NewString()
	start := time.Now()
	s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, AnalysisID: id, Source: imageURL})

	if err := s.ValidateImageURL(imageURL); err != nil {
		s.fail(ctx, id, imageURL, err)
		return nil, toValidationError(err)
	}

	data, err := s.imageRepo.FetchImage(ctx, imageURL)
	if err != nil {
		s.publish(ctx, observer.AnalysisEvent{
			EventType:      observer.ImageFetchFailed,
			AnalysisID:     id,
			Source:         imageURL,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		s.fail(ctx, id, imageURL, err)
		return nil, classifyFetchError(err)
	}
	s.publish(ctx, observer.AnalysisEvent{
		EventType:  observer.ImageFetched,
		AnalysisID: id,
		Source:     imageURL,
		Metadata:   map[string]interface{}{"bytes": len(data)},
	})

	return s.analyze(ctx, id, imageURL, data, false, start)
}

func (s *skinAnalysisService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}

func (s *skinAnalysisService) analyzeBytes(ctx context.Context, id, source string, data []byte, detailed bool) (*models.SkinAnalysisResponse, error) {
	start := time.Now()
	s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, AnalysisID: id, Source: source})
	// empty uploads decode like any other bad bytes and degrade
	return s.analyze(ctx, id, source, data, detailed, start)
}

type analysisOutcome struct {
	report   models.SkinReport
	features *analyzer.FeatureVector
}

// analyze runs the pipeline under the analysis timeout. The pipeline itself
// cannot be interrupted, so a timed out run finishes in the background.
func (s *skinAnalysisService) analyze(ctx context.Context, id, source string, data []byte, detailed bool, start time.Time) (*models.SkinAnalysisResponse, error) {
	if s.analysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
	}

	done := make(chan analysisOutcome, 1)
	go func() {
		report, features := s.analyzer.AnalyzeDetailed(data)
		done <- analysisOutcome{report: report, features: features}
	}()

	var outcome analysisOutcome
	select {
	case outcome = <-done:
	case <-ctx.Done():
		err := apperrors.NewTimeoutError("analysis did not finish in time", ctx.Err())
		s.fail(ctx, id, source, err)
		return nil, err
	}

	elapsed := time.Since(start)
	response := &models.SkinAnalysisResponse{
		AnalysisID:        id,
		Source:            source,
		Timestamp:         start.UTC().Format(time.RFC3339),
		ProcessingTimeSec: elapsed.Seconds(),
		Analysis:          outcome.report,
		RawResponse:       rawResponse,
		Recommendations:   TreatmentsFor(outcome.report.Acne.Severity),
	}
	if detailed && outcome.features != nil {
		response.Features = outcome.features.Snapshot()
	}

	event := observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		AnalysisID:     id,
		Source:         source,
		ProcessingTime: elapsed,
		Severity:       string(outcome.report.Acne.Severity),
	}
	if outcome.report.IsDegraded() {
		event.EventType = observer.AnalysisDegraded
	}
	// the request context may already be done; observers still need the event
	s.publish(context.WithoutCancel(ctx), event)

	return response, nil
}

func (s *skinAnalysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	s.publisher.NotifyObservers(ctx, event)
}

func (s *skinAnalysisService) fail(ctx context.Context, id, source string, err error) {
	s.publish(context.WithoutCancel(ctx), observer.AnalysisEvent{
		EventType:    observer.AnalysisFailed,
		AnalysisID:   id,
		Source:       source,
		ErrorMessage: err.Error(),
	})
}

func toValidationError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewValidationError("invalid image URL", err)
}

// classifyFetchError maps source failures onto API error types
func classifyFetchError(err error) error {
	var appErr *apperrors.AppError
	var timeoutErr interface{ Timeout() bool }
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &timeoutErr) && timeoutErr.Timeout():
		return apperrors.NewTimeoutError("image fetch timed out", err)
	case errors.Is(err, storage.ErrTooLarge):
		return apperrors.NewValidationError("image is too large", err)
	case errors.Is(err, repository.ErrNoFetcher):
		return apperrors.NewUnavailableError("no image source available", err)
	default:
		return apperrors.NewNetworkError(fmt.Sprintf("failed to fetch image: %v", err), err)
	}
}
