package engine

import (
	"context"
	"time"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
)

// StaticRegimeClassifier tags every run with a fixed regime code. It is
// the default until a real classifier (index trend + breadth) is wired
// in; runs record the code so they can be re-read against regime later.
type StaticRegimeClassifier struct {
	code contracts.RegimeCode
}

// NewStaticRegimeClassifier creates a classifier that always returns code.
func NewStaticRegimeClassifier(code contracts.RegimeCode) *StaticRegimeClassifier {
	return &StaticRegimeClassifier{code: code}
}

// Classify returns the fixed regime code.
func (c *StaticRegimeClassifier) Classify(ctx context.Context, date time.Time) (contracts.RegimeCode, error) {
	return c.code, nil
}
