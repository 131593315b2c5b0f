package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/cyclesim/internal/model"
)

func TestTraceIsDeterministic(t *testing.T) {
	history := []string{"A", "A", "idle", "B"}
	log := []model.Event{
		{Cycle: 0, ProcessIndex: 0, Resource: "M", Outcome: model.Accessed, Action: model.Acquire},
	}

	a := Trace(history, log)
	b := Trace(history, log)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "sha256 hex digest is 64 characters")
}

func TestTraceDiffersOnDifferentHistory(t *testing.T) {
	log := []model.Event{}
	a := Trace([]string{"A", "B"}, log)
	b := Trace([]string{"B", "A"}, log)
	assert.NotEqual(t, a, b)
}

func TestTraceNFCNormalizesIdentifiers(t *testing.T) {
	// "e" followed by a combining acute accent (U+0065 U+0301) versus the
	// single precomposed code point (U+00E9) must hash identically.
	decomposed := []string{"caf\u0065\u0301"}
	composed := []string{"caf\u00e9"}
	assert.Equal(t, Trace(composed, nil), Trace(decomposed, nil))
}
