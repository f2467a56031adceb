package progression

import (
	"math/rand"

	"github.com/soundsteps/soundsteps-api/internal/domain"
)

// Selector picks the next item to present from the active window.
// It is stateless apart from its random source and safe to share across
// goroutines when the source is.
type Selector struct {
	intn func(n int) int
}

// NewSelector creates a Selector backed by the package-level random source.
func NewSelector() *Selector {
	return &Selector{intn: rand.Intn}
}

// NewSelectorWithSource creates a Selector with a caller-provided source,
// used by tests for deterministic picks.
func NewSelectorWithSource(src rand.Source) *Selector {
	r := rand.New(src)
	return &Selector{intn: r.Intn}
}

// PickNext draws uniformly at random from the active set.
// Returns ErrCurriculumComplete when the active set is empty, which is only
// reachable once the whole catalog has been mastered; callers surface that
// as an explicit completion signal rather than selecting from nothing.
func (s *Selector) PickNext(state *domain.ProgressionState) (string, error) {
	if state == nil {
		return "", ErrNilState
	}

	if len(state.Active) == 0 {
		return "", ErrCurriculumComplete
	}

	return state.Active[s.intn(len(state.Active))], nil
}
