package indicator

import (
	"fmt"
	"math"

	"github.com/denizbora/signalscan/internal/models"
)

// stdEpsilon is the floor below which a return window is treated as
// flat. Matches the guard the scanner has always used for Z-scores.
const stdEpsilon = 1e-12

// ReturnZScore measures how unusual the latest log return is versus
// the previous `lookback` returns: z = (ret - mean) / std. A flat
// window (std below epsilon) yields exactly 0, never NaN.
type ReturnZScore struct {
	lookback  int
	returns   []float64
	prevClose float64
	processed int
}

// NewReturnZScore creates a new Z-score calculator over a rolling
// lookback window of log returns.
func NewReturnZScore(lookback int) (*ReturnZScore, error) {
	if lookback < 2 {
		return nil, fmt.Errorf("z-score lookback must be at least 2, got %d", lookback)
	}

	return &ReturnZScore{
		lookback: lookback,
		returns:  make([]float64, 0, lookback+1),
	}, nil
}

// Name returns the indicator name
func (z *ReturnZScore) Name() string {
	return fmt.Sprintf("return_zscore_%d", z.lookback)
}

// Update processes a new bar and updates the return window.
// Returns the current Z-score, or 0 while still filling the window.
func (z *ReturnZScore) Update(bar models.Bar) (float64, error) {
	if err := bar.Validate(); err != nil {
		return 0, err
	}

	if z.processed > 0 {
		ret := math.Log(bar.Close / z.prevClose)
		z.returns = append(z.returns, ret)
		// Keep the latest return plus the lookback window behind it.
		if len(z.returns) > z.lookback+1 {
			z.returns = z.returns[len(z.returns)-z.lookback-1:]
		}
	}
	z.prevClose = bar.Close
	z.processed++

	if !z.IsReady() {
		return 0, nil
	}
	return z.score(), nil
}

// Value returns the current Z-score
func (z *ReturnZScore) Value() (float64, error) {
	if !z.IsReady() {
		return 0, fmt.Errorf("%w: z-score needs at least %d bars, got %d",
			models.ErrInsufficientHistory, z.WindowSize(), z.processed)
	}
	return z.score(), nil
}

func (z *ReturnZScore) score() float64 {
	last := z.returns[len(z.returns)-1]
	window := z.returns[:len(z.returns)-1]

	mean := 0.0
	for _, r := range window {
		mean += r
	}
	mean /= float64(len(window))

	variance := 0.0
	for _, r := range window {
		d := r - mean
		variance += d * d
	}
	// Sample standard deviation, matching the source statistics.
	std := math.Sqrt(variance / float64(len(window)-1))

	if std <= stdEpsilon {
		return 0
	}
	return (last - mean) / std
}

// Reset clears the Z-score state
func (z *ReturnZScore) Reset() {
	z.returns = z.returns[:0]
	z.prevClose = 0
	z.processed = 0
}

// IsReady returns true if the window holds a full lookback of returns
// plus the latest return being scored.
func (z *ReturnZScore) IsReady() bool {
	return len(z.returns) >= z.lookback+1
}

// WindowSize returns the number of bars required for a valid value
func (z *ReturnZScore) WindowSize() int {
	return z.lookback + 2
}

// BarsProcessed returns the number of bars processed
func (z *ReturnZScore) BarsProcessed() int {
	return z.processed
}
