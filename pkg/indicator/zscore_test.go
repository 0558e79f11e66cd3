package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/denizbora/signalscan/internal/models"
)

func TestReturnZScore_NewReturnZScore(t *testing.T) {
	z, err := NewReturnZScore(60)
	if err != nil {
		t.Fatalf("Failed to create ReturnZScore: %v", err)
	}
	if z.Name() != "return_zscore_60" {
		t.Errorf("Expected name 'return_zscore_60', got '%s'", z.Name())
	}

	_, err = NewReturnZScore(1)
	if err == nil {
		t.Error("Expected error for lookback < 2")
	}
}

func TestReturnZScore_FlatSeriesIsZero(t *testing.T) {
	z, _ := NewReturnZScore(10)
	now := time.Now()

	// Constant closes: every return is 0, std is 0
	for i := 0; i < 20; i++ {
		_, err := z.Update(barAt(now.Add(time.Duration(i)*time.Minute), 100, 100, 100, 100))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	val, err := z.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if val != 0 {
		t.Errorf("Expected z exactly 0 for flat series, got %f", val)
	}
	if math.IsNaN(val) {
		t.Error("Z-score must never be NaN")
	}
}

func TestReturnZScore_SpikeIsPositiveAndLarge(t *testing.T) {
	z, _ := NewReturnZScore(20)
	now := time.Now()

	// Gentle noise, then a 5% jump on the final bar
	price := 100.0
	for i := 0; i < 30; i++ {
		step := 1.0 + 0.0005*math.Sin(float64(i))
		price *= step
		_, _ = z.Update(barAt(now.Add(time.Duration(i)*time.Minute), price, price*1.001, price*0.999, price))
	}
	price *= 1.05
	val, err := z.Update(barAt(now.Add(30*time.Minute), price, price*1.001, price*0.999, price))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if val <= 3 {
		t.Errorf("Expected large positive z for a 5%% spike, got %f", val)
	}
}

func TestReturnZScore_DropIsNegative(t *testing.T) {
	z, _ := NewReturnZScore(20)
	now := time.Now()

	price := 100.0
	for i := 0; i < 30; i++ {
		step := 1.0 + 0.0005*math.Sin(float64(i))
		price *= step
		_, _ = z.Update(barAt(now.Add(time.Duration(i)*time.Minute), price, price*1.001, price*0.999, price))
	}
	price *= 0.95
	val, _ := z.Update(barAt(now.Add(30*time.Minute), price, price*1.001, price*0.999, price))

	if val >= -3 {
		t.Errorf("Expected large negative z for a 5%% drop, got %f", val)
	}
}

func TestReturnZScore_InsufficientHistory(t *testing.T) {
	z, _ := NewReturnZScore(60)
	now := time.Now()
	for i := 0; i < 10; i++ {
		_, _ = z.Update(barAt(now.Add(time.Duration(i)*time.Minute), 100, 101, 99, 100))
	}

	_, err := z.Value()
	if err == nil {
		t.Fatal("Expected error before window fills")
	}
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Errorf("Expected ErrInsufficientHistory, got %v", err)
	}
}

func TestReturnZScore_WindowSize(t *testing.T) {
	z, _ := NewReturnZScore(60)
	// lookback returns behind the scored return, plus the bar starting
	// the return series
	if z.WindowSize() != 62 {
		t.Errorf("Expected window size 62, got %d", z.WindowSize())
	}
}
