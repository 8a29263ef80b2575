package analyzer

import (
	"context"

	"go-skin-inspector/pkg/models"
)

// SkinAnalyzer turns raw image bytes into a skin report
type SkinAnalyzer interface {
	// Analyze never fails; undecodable or degenerate input yields the degraded report
	Analyze(data []byte) models.SkinReport

	// AnalyzeDetailed also returns the feature vector, nil when the report is degraded
	AnalyzeDetailed(data []byte) (models.SkinReport, *FeatureVector)

	// AnalyzeBatch analyzes every input independently on the worker pool.
	// onDone, when non-nil, is called once per finished input. Once ctx is
	// done no further inputs are started; in-flight ones finish and ctx.Err()
	// is returned with the reports collected so far.
	AnalyzeBatch(ctx context.Context, inputs [][]byte, onDone func(index int)) ([]models.SkinReport, error)

	Options() Options

	// Lifecycle management
	Close() error
}
