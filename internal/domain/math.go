package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AlgoPrecision is the number of decimal places of the base currency.
const AlgoPrecision = 6

// MicroPerAlgo is the number of micro-units in one ALGO.
const MicroPerAlgo = 1_000_000

var microPerAlgo = decimal.NewFromInt(MicroPerAlgo)

// MicroToAlgo converts an integer micro-unit amount into ALGO.
func MicroToAlgo(micro uint64) decimal.Decimal {
	return decimal.NewFromUint64(micro).Div(microPerAlgo)
}

// AlgoToMicro converts an ALGO amount to micro-units, truncating anything below one micro-unit.
// Negative amounts return zero.
func AlgoToMicro(algo decimal.Decimal) uint64 {
	if algo.IsNegative() {
		return 0
	}
	return uint64(algo.Mul(microPerAlgo).Truncate(0).IntPart())
}

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round6 rounds to the base currency precision.
func Round6(d decimal.Decimal) decimal.Decimal {
	return d.Round(AlgoPrecision)
}

// FormatAlgo renders an amount with exactly six decimal places, e.g. "2.500000".
func FormatAlgo(d decimal.Decimal) string {
	return d.StringFixed(AlgoPrecision)
}

// TrimAlgo rounds to six places and strips trailing zeros, e.g. "1.5".
func TrimAlgo(d decimal.Decimal) string {
	s := Round6(d).StringFixed(AlgoPrecision)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
