package output

import (
	"context"

	"github.com/crimson-sun/triage/internal/model"
)

// Output defines the interface for triage verdict destinations.
type Output interface {
	Write(ctx context.Context, result model.AnalysisResult) error
	Close() error
}
