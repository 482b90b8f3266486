// Package rules holds the cooperative's lending and savings policy: loan
// eligibility, borrowing limits, repayment terms and fixed-deposit interest.
// Everything here is pure; callers own persistence.
package rules

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type LoanType string

const (
	Emergency   LoanType = "Emergency"
	Short       LoanType = "Short"
	Normal      LoanType = "Normal"
	Development LoanType = "Development"
)

type LoanStatus string

const (
	StatusActive  LoanStatus = "Active"
	StatusCleared LoanStatus = "Cleared"
)

const (
	// MinEligibleShares is the contributions total a member needs before any loan.
	MinEligibleShares = 4000.0
	// MinMemberShares is the opening share balance required to join.
	MinMemberShares = 1000.0
	RegistrationFee = 1000.0
	MinMemberAge    = 18
	MaxMemberAge    = 35

	defaultRepaymentPeriod = 12
)

var (
	fixedDepositMonthlyRate = decimal.RequireFromString("0.006")
	defaultMultiplier       = decimal.NewFromInt(1)
	one                     = decimal.NewFromInt(1)
	hundred                 = decimal.NewFromInt(100)
)

type loanPolicy struct {
	rate       decimal.Decimal
	period     int
	multiplier decimal.Decimal
}

var loanPolicies = map[LoanType]loanPolicy{
	Emergency:   {rate: decimal.RequireFromString("0.3"), period: 12, multiplier: decimal.NewFromInt(1)},
	Short:       {rate: decimal.RequireFromString("0.6"), period: 24, multiplier: decimal.NewFromInt(2)},
	Normal:      {rate: decimal.RequireFromString("1.0"), period: 36, multiplier: decimal.NewFromInt(3)},
	Development: {rate: decimal.RequireFromString("1.4"), period: 48, multiplier: decimal.NewFromInt(5)},
}

// LoanTypes lists the offered products from the smallest to the largest limit.
func LoanTypes() []LoanType {
	return []LoanType{Emergency, Short, Normal, Development}
}

func ParseLoanType(s string) (LoanType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range LoanTypes() {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

func IsEligible(totalShares float64) bool {
	return totalShares >= MinEligibleShares
}

// MaxPrincipal is shares times the loan type multiplier; unknown types borrow 1x.
func MaxPrincipal(totalShares float64, t LoanType) float64 {
	multiplier := defaultMultiplier
	if p, ok := loanPolicies[t]; ok {
		multiplier = p.multiplier
	}
	return decimal.NewFromFloat(totalShares).Mul(multiplier).InexactFloat64()
}

type LoanTerms struct {
	InterestRatePercent float64
	RepaymentPeriod     int
	TotalRepayable      float64
	MonthlyRepayment    float64
}

// DeriveLoanTerms prices a loan with flat interest over its repayment period.
// Unknown types carry no interest and a 12 month period.
func DeriveLoanTerms(principal float64, t LoanType) LoanTerms {
	rate := decimal.Zero
	period := defaultRepaymentPeriod
	if p, ok := loanPolicies[t]; ok {
		rate = p.rate
		period = p.period
	}

	total := decimal.NewFromFloat(principal).Mul(one.Add(rate))
	return LoanTerms{
		InterestRatePercent: rate.Mul(hundred).InexactFloat64(),
		RepaymentPeriod:     period,
		TotalRepayable:      total.InexactFloat64(),
		MonthlyRepayment:    total.Div(decimal.NewFromInt(int64(period))).InexactFloat64(),
	}
}

// Repay applies a payment to an outstanding balance. Overpayment is dropped,
// the balance never goes below zero and a zero balance clears the loan.
func Repay(outstanding, payment float64) (float64, LoanStatus) {
	balance := decimal.NewFromFloat(outstanding).Sub(decimal.NewFromFloat(payment))
	if !balance.IsPositive() {
		return 0, StatusCleared
	}
	return balance.InexactFloat64(), StatusActive
}

type Accrual struct {
	Since               time.Time
	MonthsElapsed       int
	MonthlyInterest     float64
	AccumulatedInterest float64
}

// AccrueFixedDeposit computes the interest earned on pooled savings since the
// previous snapshot. With no previous snapshot exactly one month is accrued.
// Nothing is rounded: accumulated is always savings x 0.006 x months.
func AccrueFixedDeposit(totalSavings float64, prior *time.Time, today time.Time) Accrual {
	since := OneMonthBefore(today)
	if prior != nil {
		since = *prior
	}
	months := WholeMonthsBetween(since, today)

	monthly := decimal.NewFromFloat(totalSavings).Mul(fixedDepositMonthlyRate)
	return Accrual{
		Since:               since,
		MonthsElapsed:       months,
		MonthlyInterest:     monthly.InexactFloat64(),
		AccumulatedInterest: monthly.Mul(decimal.NewFromInt(int64(months))).InexactFloat64(),
	}
}

// WholeMonthsBetween counts complete calendar months from one date to another,
// ignoring the time of day. Jan 31 to Feb 28 is 0. A later from gives 0.
func WholeMonthsBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()

	months := (ty-fy)*12 + int(tm-fm)
	if months > 0 && td < fd {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// OneMonthBefore steps back one calendar month, clamping to the last day of a
// shorter month (Mar 31 becomes Feb 28 or 29).
func OneMonthBefore(t time.Time) time.Time {
	y, m, d := t.Date()
	m--
	if m < time.January {
		m = time.December
		y--
	}
	if last := time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location()).Day(); d > last {
		d = last
	}
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SuggestTier is the hint shown beside a member's share balance: the largest
// product that balance band qualifies for and the amount it allows.
func SuggestTier(shares float64) (LoanType, float64) {
	var t LoanType
	switch {
	case shares < 6000:
		t = Emergency
	case shares < 12000:
		t = Short
	case shares < 18000:
		t = Normal
	default:
		t = Development
	}
	return t, MaxPrincipal(shares, t)
}
