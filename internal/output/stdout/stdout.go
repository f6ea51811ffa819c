package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/triage/internal/model"
)

// Output writes JSON-encoded verdicts to stdout.
type Output struct {
	enc *json.Encoder
}

// New creates a stdout Output, optionally pretty-printed.
func New(pretty bool) *Output {
	return NewWriter(os.Stdout, pretty)
}

// NewWriter creates an Output targeting an arbitrary writer. Used by tests.
func NewWriter(w io.Writer, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc}
}

func (o *Output) Write(_ context.Context, result model.AnalysisResult) error {
	if err := o.enc.Encode(result); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
