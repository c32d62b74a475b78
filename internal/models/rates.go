package models

import (
	"gonum.org/v1/gonum/stat"
)

// RateTable maps month (1-12) to the local-currency price of one unit of the
// reference currency. Partial tables are legal.
type RateTable map[int]float64

// MeanRate is the arithmetic mean of all strictly positive entries, or 0 when
// there are none.
func (t RateTable) MeanRate() float64 {
	valid := make([]float64, 0, len(t))
	for month := MinMonth; month <= MaxMonth; month++ {
		if rate, ok := t[month]; ok && rate > 0 {
			valid = append(valid, rate)
		}
	}
	if len(valid) == 0 {
		return 0
	}
	return stat.Mean(valid, nil)
}

// Explicit reports whether month carries its own positive rate.
func (t RateTable) Explicit(month int) bool {
	rate, ok := t[month]
	return ok && rate > 0
}

// RateFor returns the rate for month, falling back to the mean rate. The
// second result is false when the fallback was used.
func (t RateTable) RateFor(month int) (float64, bool) {
	if t.Explicit(month) {
		return t[month], true
	}
	return t.MeanRate(), false
}

// Complete reports whether every month 1-12 has an explicit positive rate.
func (t RateTable) Complete() bool {
	for month := MinMonth; month <= MaxMonth; month++ {
		if !t.Explicit(month) {
			return false
		}
	}
	return true
}
