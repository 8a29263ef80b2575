package analyzer

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	apperrors "go-skin-inspector/internal/errors"
	"go-skin-inspector/internal/logger"
	"go-skin-inspector/pkg/models"
)

// coreAnalyzer wires normalizer, projector, extractor and report builder
type coreAnalyzer struct {
	opts       Options
	workerPool *WorkerPool
}

// NewSkinAnalyzer creates an analyzer with its batch worker pool started
func NewSkinAnalyzer(opts Options) (SkinAnalyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis options: %w", err)
	}

	workerPool := NewWorkerPool(opts.MaxWorkers)
	workerPool.Start()

	return &coreAnalyzer{
		opts:       opts,
		workerPool: workerPool,
	}, nil
}

func (ca *coreAnalyzer) Options() Options {
	return ca.opts
}

func (ca *coreAnalyzer) Analyze(data []byte) models.SkinReport {
	report, _ := ca.AnalyzeDetailed(data)
	return report
}

func (ca *coreAnalyzer) AnalyzeDetailed(data []byte) (models.SkinReport, *FeatureVector) {
	ex := ca.extract(data)
	report := BuildReport(ex, ca.opts)
	if ex.Err != nil {
		logger.WithFields(logrus.Fields{
			"bytes":      len(data),
			"error_type": errorType(ex.Err),
		}).WithError(ex.Err).Warn("Image could not be analyzed, returning degraded report")
		return report, nil
	}

	features := ex.Features
	return report, &features
}

func (ca *coreAnalyzer) AnalyzeBatch(ctx context.Context, inputs [][]byte, onDone func(index int)) ([]models.SkinReport, error) {
	reports := make([]models.SkinReport, len(inputs))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i := range inputs {
		if ctx.Err() != nil {
			break
		}
		i := i
		wg.Add(1)
		submitted := ca.workerPool.Submit(func() {
			defer wg.Done()
			reports[i] = ca.Analyze(inputs[i])
			if onDone != nil {
				mu.Lock()
				onDone(i)
				mu.Unlock()
			}
		})
		if !submitted {
			wg.Done()
			reports[i] = ca.Analyze(inputs[i])
			if onDone != nil {
				mu.Lock()
				onDone(i)
				mu.Unlock()
			}
		}
	}
	wg.Wait()
	return reports, ctx.Err()
}

func (ca *coreAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}

// extract runs every fallible stage and folds any failure into the result
func (ca *coreAnalyzer) extract(data []byte) (ex Extraction) {
	defer func() {
		if r := recover(); r != nil {
			ex = Extraction{Err: apperrors.NewProcessingError(fmt.Sprintf("analysis panicked: %v", r), nil)}
		}
	}()

	grid, err := Normalize(data, ca.opts.GridSize)
	if err != nil {
		return Extraction{Err: err}
	}
	hsv := ProjectHSV(grid)
	features, err := ExtractFeatures(grid, hsv, ca.opts)
	if err != nil {
		return Extraction{Err: err}
	}
	return Extraction{Features: features}
}

func errorType(err error) string {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeDecode):
		return string(apperrors.ErrorTypeDecode)
	case apperrors.IsType(err, apperrors.ErrorTypeProcessing):
		return string(apperrors.ErrorTypeProcessing)
	default:
		return "unknown"
	}
}
