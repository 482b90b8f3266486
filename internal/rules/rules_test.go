package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name     string
		shares   float64
		expected bool
	}{
		{name: "No contributions", shares: 0, expected: false},
		{name: "Just below threshold", shares: 3999.99, expected: false},
		{name: "Threshold is inclusive", shares: 4000, expected: true},
		{name: "Above threshold", shares: 5000, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEligible(tt.shares))
		})
	}
}

func TestMaxPrincipal(t *testing.T) {
	tests := []struct {
		name     string
		shares   float64
		loanType LoanType
		expected float64
	}{
		{name: "Emergency", shares: 5000, loanType: Emergency, expected: 5000},
		{name: "Short", shares: 5000, loanType: Short, expected: 10000},
		{name: "Normal", shares: 5000, loanType: Normal, expected: 15000},
		{name: "Development", shares: 5000, loanType: Development, expected: 25000},
		{name: "Unknown type borrows 1x", shares: 5000, loanType: LoanType("Holiday"), expected: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MaxPrincipal(tt.shares, tt.loanType), 1e-9)
		})
	}
}

func TestDeriveLoanTerms(t *testing.T) {
	tests := []struct {
		name     string
		loanType LoanType
		rate     float64
		expected LoanTerms
	}{
		{
			name:     "Emergency",
			loanType: Emergency,
			rate:     0.3,
			expected: LoanTerms{InterestRatePercent: 30, RepaymentPeriod: 12, TotalRepayable: 1300, MonthlyRepayment: 1300.0 / 12},
		},
		{
			name:     "Short",
			loanType: Short,
			rate:     0.6,
			expected: LoanTerms{InterestRatePercent: 60, RepaymentPeriod: 24, TotalRepayable: 1600, MonthlyRepayment: 1600.0 / 24},
		},
		{
			name:     "Normal",
			loanType: Normal,
			rate:     1.0,
			expected: LoanTerms{InterestRatePercent: 100, RepaymentPeriod: 36, TotalRepayable: 2000, MonthlyRepayment: 2000.0 / 36},
		},
		{
			name:     "Development",
			loanType: Development,
			rate:     1.4,
			expected: LoanTerms{InterestRatePercent: 140, RepaymentPeriod: 48, TotalRepayable: 2400, MonthlyRepayment: 50},
		},
		{
			name:     "Unknown type has no interest over 12 months",
			loanType: LoanType("Holiday"),
			rate:     0,
			expected: LoanTerms{InterestRatePercent: 0, RepaymentPeriod: 12, TotalRepayable: 1000, MonthlyRepayment: 1000.0 / 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := DeriveLoanTerms(1000, tt.loanType)
			assert.InDelta(t, tt.expected.InterestRatePercent, terms.InterestRatePercent, 1e-9)
			assert.Equal(t, tt.expected.RepaymentPeriod, terms.RepaymentPeriod)
			assert.InDelta(t, tt.expected.TotalRepayable, terms.TotalRepayable, 1e-9)
			assert.InDelta(t, tt.expected.MonthlyRepayment, terms.MonthlyRepayment, 1e-9)
		})
	}
}

func TestDeriveLoanTerms_MonthlyTimesPeriodIsTotal(t *testing.T) {
	principals := []float64{1, 999.99, 4000, 12345.67, 250000}
	for _, loanType := range LoanTypes() {
		for _, principal := range principals {
			terms := DeriveLoanTerms(principal, loanType)
			rate := terms.InterestRatePercent / 100
			assert.InDelta(t, principal*(1+rate), terms.MonthlyRepayment*float64(terms.RepaymentPeriod), 1e-6,
				"%s %.2f", loanType, principal)
		}
	}
}

func TestRepay(t *testing.T) {
	tests := []struct {
		name            string
		outstanding     float64
		payment         float64
		expectedBalance float64
		expectedStatus  LoanStatus
	}{
		{name: "Partial payment stays active", outstanding: 1200, payment: 200, expectedBalance: 1000, expectedStatus: StatusActive},
		{name: "Exact payment clears", outstanding: 1200, payment: 1200, expectedBalance: 0, expectedStatus: StatusCleared},
		{name: "Overpayment floors at zero", outstanding: 1200, payment: 5000, expectedBalance: 0, expectedStatus: StatusCleared},
		{name: "Paying a cleared loan keeps it cleared", outstanding: 0, payment: 100, expectedBalance: 0, expectedStatus: StatusCleared},
		{name: "Fractional amounts clear exactly", outstanding: 1200.1, payment: 1200.1, expectedBalance: 0, expectedStatus: StatusCleared},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, status := Repay(tt.outstanding, tt.payment)
			assert.InDelta(t, tt.expectedBalance, balance, 1e-9)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestAccrueFixedDeposit(t *testing.T) {
	today := date(2024, time.June, 15)
	threeMonthsAgo := date(2024, time.March, 15)
	lastWeek := date(2024, time.June, 8)
	feb20 := date(2024, time.February, 20)

	tests := []struct {
		name        string
		savings     float64
		prior       *time.Time
		months      int
		monthly     float64
		accumulated float64
	}{
		{name: "No prior snapshot accrues one month", savings: 100000, prior: nil, months: 1, monthly: 600, accumulated: 600},
		{name: "Three months since last snapshot", savings: 100000, prior: &threeMonthsAgo, months: 3, monthly: 600, accumulated: 1800},
		{name: "Same month accrues nothing", savings: 100000, prior: &lastWeek, months: 0, monthly: 600, accumulated: 0},
		{name: "Odd savings are not rounded", savings: 1234.56, prior: nil, months: 1, monthly: 7.40736, accumulated: 7.40736},
		{name: "Odd savings over three months", savings: 1234.56, prior: &feb20, months: 3, monthly: 7.40736, accumulated: 22.22208},
		{name: "Sub-cent monthly interest is kept", savings: 833.33, prior: &threeMonthsAgo, months: 3, monthly: 4.99998, accumulated: 14.99994},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accrual := AccrueFixedDeposit(tt.savings, tt.prior, today)
			assert.Equal(t, tt.months, accrual.MonthsElapsed)
			assert.InDelta(t, tt.monthly, accrual.MonthlyInterest, 1e-9)
			assert.InDelta(t, tt.accumulated, accrual.AccumulatedInterest, 1e-9)
			assert.InDelta(t, tt.savings*0.006*float64(tt.months), accrual.AccumulatedInterest, 1e-9)
		})
	}
}

func TestWholeMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{name: "Same day", from: date(2024, time.May, 10), to: date(2024, time.May, 10), expected: 0},
		{name: "Exactly one month", from: date(2024, time.May, 10), to: date(2024, time.June, 10), expected: 1},
		{name: "One day short of a month", from: date(2024, time.May, 10), to: date(2024, time.June, 9), expected: 0},
		{name: "Across a year", from: date(2023, time.November, 1), to: date(2024, time.February, 1), expected: 3},
		{name: "Month end to shorter month end", from: date(2024, time.January, 31), to: date(2024, time.February, 29), expected: 0},
		{name: "Time of day is ignored", from: time.Date(2024, time.May, 10, 23, 0, 0, 0, time.UTC), to: time.Date(2024, time.June, 10, 1, 0, 0, 0, time.UTC), expected: 1},
		{name: "Future start counts as zero", from: date(2024, time.August, 1), to: date(2024, time.June, 1), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WholeMonthsBetween(tt.from, tt.to))
		})
	}
}

func TestOneMonthBefore(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Time
		expected time.Time
	}{
		{name: "Mid month", in: date(2024, time.June, 15), expected: date(2024, time.May, 15)},
		{name: "January wraps to December", in: date(2024, time.January, 20), expected: date(2023, time.December, 20)},
		{name: "Clamps to leap February", in: date(2024, time.March, 31), expected: date(2024, time.February, 29)},
		{name: "Clamps to February", in: date(2023, time.March, 30), expected: date(2023, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OneMonthBefore(tt.in)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
			assert.Equal(t, 1, WholeMonthsBetween(got, tt.in))
		})
	}
}

func TestSuggestTier(t *testing.T) {
	tests := []struct {
		shares   float64
		loanType LoanType
		max      float64
	}{
		{shares: 1000, loanType: Emergency, max: 1000},
		{shares: 5999, loanType: Emergency, max: 5999},
		{shares: 6000, loanType: Short, max: 12000},
		{shares: 12000, loanType: Normal, max: 36000},
		{shares: 18000, loanType: Development, max: 90000},
	}

	for _, tt := range tests {
		loanType, max := SuggestTier(tt.shares)
		assert.Equal(t, tt.loanType, loanType)
		assert.InDelta(t, tt.max, max, 1e-9)
	}
}

func TestParseLoanType(t *testing.T) {
	loanType, ok := ParseLoanType(" emergency ")
	assert.True(t, ok)
	assert.Equal(t, Emergency, loanType)

	_, ok = ParseLoanType("Holiday")
	assert.False(t, ok)
}
