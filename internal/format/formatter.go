// Package format renders signals into the canonical text line consumed
// by every sink:
//
//	$<SYMBOL> <PRICE> <SIGNED_PCT>% | <TR_ATR>x ATR | Z <Z> | <SIGNAL_TYPE>
//
// The layout is parsed by downstream tooling and must not drift.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/denizbora/signalscan/internal/models"
)

// DefaultPriceDecimals is the number of decimals for prices under
// 1000. Sub-dollar crypto pairs may want more.
const DefaultPriceDecimals = 2

// Formatter renders Signals into the canonical line.
type Formatter struct {
	priceDecimals int
}

// NewFormatter creates a formatter with the default price precision.
func NewFormatter() *Formatter {
	return &Formatter{priceDecimals: DefaultPriceDecimals}
}

// NewFormatterWithPrecision creates a formatter with a custom decimal
// count for prices under 1000.
func NewFormatterWithPrecision(priceDecimals int) (*Formatter, error) {
	if priceDecimals < 0 || priceDecimals > 8 {
		return nil, fmt.Errorf("price decimals must be between 0 and 8, got %d", priceDecimals)
	}
	return &Formatter{priceDecimals: priceDecimals}, nil
}

// Line renders one signal. The signal-type suffix is omitted entirely
// when the type is empty; the line still carries the indicator values
// for diagnostic use.
func (f *Formatter) Line(sig *models.Signal) string {
	line := fmt.Sprintf("$%s %s %+.2f%% | %.2fx ATR | Z %.2f",
		sig.Symbol,
		f.Price(sig.Price),
		sig.ChangePct,
		sig.TRATRRatio,
		sig.ZScore,
	)
	if sig.SignalType != models.SignalNone {
		line += " | " + string(sig.SignalType)
	}
	return line
}

// Price renders a price with a dollar prefix. Prices at or above 1000
// drop the decimals and gain a thousands separator; the boundary is
// on the raw value, not the rounded rendering.
func (f *Formatter) Price(price float64) string {
	decimals := f.priceDecimals
	if price >= 1000 {
		decimals = 0
	}
	return "$" + groupThousands(strconv.FormatFloat(price, 'f', decimals, 64))
}

// groupThousands inserts comma separators into the integer part of a
// non-negative decimal string.
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	n := len(intPart)
	if n <= 3 {
		if hasFrac {
			return intPart + "." + fracPart
		}
		return intPart
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
