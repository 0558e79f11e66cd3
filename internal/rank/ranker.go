// Package rank selects which classified signals to act on. The
// comparator is explicit and deterministic; the shell-era habit of
// sorting formatted percentage strings lost ties silently.
package rank

import (
	"math"
	"sort"

	"github.com/denizbora/signalscan/internal/models"
)

// AllActionable returns every signal with a non-empty type, in input
// order.
func AllActionable(signals []*models.Signal) []*models.Signal {
	out := make([]*models.Signal, 0, len(signals))
	for _, sig := range signals {
		if sig != nil && sig.Actionable() {
			out = append(out, sig)
		}
	}
	return out
}

// TopN returns up to n actionable signals ordered by the ranking
// comparator: score descending, then |change_pct| descending, then
// symbol ascending. The input slice is not modified.
//
// Returns ErrNoActionableSignal when the batch holds no actionable
// signal; callers treat that as "nothing to notify", not a failure.
func TopN(signals []*models.Signal, n int) ([]*models.Signal, error) {
	if n < 1 {
		return nil, models.ErrNoActionableSignal
	}

	candidates := AllActionable(signals)
	if len(candidates) == 0 {
		return nil, models.ErrNoActionableSignal
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return Less(candidates[j], candidates[i])
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates, nil
}

// Top1 returns the single most salient actionable signal.
func Top1(signals []*models.Signal) (*models.Signal, error) {
	top, err := TopN(signals, 1)
	if err != nil {
		return nil, err
	}
	return top[0], nil
}

// Less reports whether a ranks strictly below b: lower score, then
// smaller |change_pct|, then later symbol.
func Less(a, b *models.Signal) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	if abs := math.Abs(a.ChangePct); abs != math.Abs(b.ChangePct) {
		return abs < math.Abs(b.ChangePct)
	}
	return a.Symbol > b.Symbol
}
