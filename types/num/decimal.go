package num

import (
	"github.com/shopspring/decimal"
)

// Decimal is the numeric type used for all prices in the engine.
type Decimal = decimal.Decimal

var (
	dzero    = decimal.Zero
	done     = decimal.NewFromInt(1)
	dhundred = decimal.NewFromInt(100)
)

func DecimalZero() Decimal {
	return dzero
}

func DecimalOne() Decimal {
	return done
}

func DecimalHundred() Decimal {
	return dhundred
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromUint64(u uint64) Decimal {
	return decimal.NewFromUint64(u)
}

func DecimalFromFloat(f float64) Decimal {
	return decimal.NewFromFloat(f)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

func MustDecimalFromString(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MinD returns the smaller of two decimals.
func MinD(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// MaxD returns the larger of two decimals.
func MaxD(a, b Decimal) Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// AbsDiff returns |a-b|.
func AbsDiff(a, b Decimal) Decimal {
	return a.Sub(b).Abs()
}

// MinUint returns the smaller of two uint64.
func MinUint(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
