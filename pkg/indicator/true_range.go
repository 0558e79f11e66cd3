package indicator

import (
	"math"

	"github.com/denizbora/signalscan/internal/models"
)

// TrueRange computes the True Range for one bar given the previous
// close: max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(bar models.Bar, prevClose float64) float64 {
	hl := bar.High - bar.Low
	hc := math.Abs(bar.High - prevClose)
	lc := math.Abs(bar.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

// TrueRangeSeries computes the True Range for every bar in a series.
// The first bar has no previous close, so its True Range degenerates
// to high-low.
func TrueRangeSeries(bars []models.Bar) []float64 {
	trs := make([]float64, len(bars))
	for i, bar := range bars {
		if i == 0 {
			trs[i] = bar.High - bar.Low
			continue
		}
		trs[i] = TrueRange(bar, bars[i-1].Close)
	}
	return trs
}
