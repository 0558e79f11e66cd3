package indicator

import (
	"math"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"github.com/denizbora/signalscan/internal/models"
)

// neutralRSI is reported when the series is too short for a
// meaningful RSI, mirroring the scanner's historical behavior.
const neutralRSI = 50.0

// RSI computes the Relative Strength Index over a bar series using
// techan. It is a diagnostic value only; it never gates
// classification.
func RSI(bars []models.Bar, period int) float64 {
	if period < 1 || len(bars) < period+1 {
		return neutralRSI
	}

	series := techan.NewTimeSeries()
	for _, bar := range bars {
		candle := techan.NewCandle(techan.NewTimePeriod(bar.Timestamp, time.Minute))
		candle.OpenPrice = big.NewDecimal(bar.Open)
		candle.MaxPrice = big.NewDecimal(bar.High)
		candle.MinPrice = big.NewDecimal(bar.Low)
		candle.ClosePrice = big.NewDecimal(bar.Close)
		candle.Volume = big.NewDecimal(bar.Volume)
		series.AddCandle(candle)
	}

	rsi := techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(series), period)
	value := rsi.Calculate(series.LastIndex()).Float()

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return neutralRSI
	}
	return value
}
