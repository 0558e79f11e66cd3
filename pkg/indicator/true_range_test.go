package indicator

import (
	"testing"
	"time"

	"github.com/denizbora/signalscan/internal/models"
)

func barAt(t time.Time, open, high, low, close float64) models.Bar {
	return models.Bar{
		Symbol:    "TEST",
		Timestamp: t,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    1000,
	}
}

func TestTrueRange_IntraBarRange(t *testing.T) {
	bar := barAt(time.Now(), 100, 105, 99, 103)

	// Previous close inside the bar's range: TR is just high-low
	tr := TrueRange(bar, 102)
	if tr != 6 {
		t.Errorf("Expected TR 6, got %f", tr)
	}
}

func TestTrueRange_GapUp(t *testing.T) {
	// Gap up: previous close far below the bar's low
	bar := barAt(time.Now(), 110, 112, 109, 111)

	tr := TrueRange(bar, 100)
	if tr != 12 {
		t.Errorf("Expected TR 12 (high - prev close), got %f", tr)
	}
}

func TestTrueRange_GapDown(t *testing.T) {
	// Gap down: previous close far above the bar's high
	bar := barAt(time.Now(), 90, 92, 89, 91)

	tr := TrueRange(bar, 100)
	if tr != 11 {
		t.Errorf("Expected TR 11 (prev close - low), got %f", tr)
	}
}

func TestTrueRangeSeries_FirstBarDegenerates(t *testing.T) {
	now := time.Now()
	bars := []models.Bar{
		barAt(now, 100, 104, 98, 102),
		barAt(now.Add(time.Minute), 102, 106, 101, 105),
	}

	trs := TrueRangeSeries(bars)
	if len(trs) != 2 {
		t.Fatalf("Expected 2 TR values, got %d", len(trs))
	}
	// First bar has no previous close
	if trs[0] != 6 {
		t.Errorf("Expected first TR 6 (high - low), got %f", trs[0])
	}
	if trs[1] != 5 {
		t.Errorf("Expected second TR 5, got %f", trs[1])
	}
}

func TestTrueRangeSeries_NonNegative(t *testing.T) {
	now := time.Now()
	bars := make([]models.Bar, 0, 50)
	price := 100.0
	for i := 0; i < 50; i++ {
		delta := float64(i%7) - 3
		bars = append(bars, barAt(now.Add(time.Duration(i)*time.Minute),
			price, price+2, price-2, price+delta))
		price += delta
	}

	for i, tr := range TrueRangeSeries(bars) {
		if tr < 0 {
			t.Errorf("TR at index %d is negative: %f", i, tr)
		}
	}
}
