// Package finance holds the derived loan metrics: pure functions, no I/O.
package finance

import (
	"math"
	"time"
)

const (
	DefaultTermMonths = 12
	DefaultTermDays   = 365
)

// MonthlyEMI computes the equated monthly installment under standard
// amortization: P·r·(1+r)^n / ((1+r)^n − 1), with r the monthly rate.
// A zero rate degrades to straight division; a zero amount is always 0.
func MonthlyEMI(amount, annualRatePct float64, termMonths int) float64 {
	if termMonths <= 0 {
		termMonths = DefaultTermMonths
	}
	if amount == 0 {
		return 0
	}
	r := annualRatePct / 100 / 12
	if r == 0 {
		return amount / float64(termMonths)
	}
	pow := math.Pow(1+r, float64(termMonths))
	return amount * r * pow / (pow - 1)
}

// TotalPayable is the flat one-year interest approximation, not compounded.
func TotalPayable(amount, annualRatePct float64) float64 {
	return amount + amount*annualRatePct/100
}

// ProgressPercent reports elapsed loan time as a percentage of totalDays,
// clamped to [0,100]. A start date in the future clamps to 0.
func ProgressPercent(startDate, now time.Time, totalDays int) float64 {
	if totalDays <= 0 {
		totalDays = DefaultTermDays
	}
	elapsed := now.Sub(startDate).Hours() / 24
	pct := 100 * elapsed / float64(totalDays)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Figures is the slice of a loan the aggregates care about.
type Figures struct {
	Amount       float64
	InterestRate float64
	Status       string
}

type Summary struct {
	TotalLoans      int            `json:"totalLoans"`
	TotalAmount     float64        `json:"totalAmount"`
	AvgInterestRate float64        `json:"avgInterestRate"`
	CountsByStatus  map[string]int `json:"countsByStatus"`
}

// Summarize folds a collection into totals. The average over an empty
// collection is 0, never a division by zero.
func Summarize(items []Figures) Summary {
	s := Summary{CountsByStatus: map[string]int{}}
	for _, it := range items {
		s.TotalLoans++
		s.TotalAmount += it.Amount
		s.AvgInterestRate += it.InterestRate
		s.CountsByStatus[it.Status]++
	}
	if s.TotalLoans > 0 {
		s.AvgInterestRate /= float64(s.TotalLoans)
	}
	return s
}
