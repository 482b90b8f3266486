package domain

import "time"

type Operator struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Member struct {
	ID              int     `db:"id"`
	FullName        string  `db:"full_name"`
	Age             int     `db:"age"`
	Shares          float64 `db:"shares"`
	RegistrationFee float64 `db:"registration_fee"`
	OutstandingLoan float64 `db:"outstanding_loan"`
	ExitNoticeGiven bool    `db:"exit_notice_given"`
	Dividends       float64 `db:"dividends"`
}

type MemberSummary struct {
	TotalShares           float64
	TotalRegistrationFees float64
}

type Contribution struct {
	ID            int       `db:"id"`
	MemberID      int       `db:"member_id"`
	Amount        float64   `db:"amount"`
	ContributedAt time.Time `db:"contributed_at"`
}

type Loan struct {
	ID                 int       `db:"id"`
	MemberID           int       `db:"member_id"`
	Amount             float64   `db:"amount"`
	LoanType           string    `db:"loan_type"`
	InterestRate       float64   `db:"interest_rate"`
	RepaymentPeriod    int       `db:"repayment_period"`
	MonthlyRepayment   float64   `db:"monthly_repayment"`
	OutstandingBalance float64   `db:"outstanding_balance"`
	GuarantorIDs       string    `db:"guarantor_ids"`
	Status             string    `db:"status"`
	CreatedAt          time.Time `db:"created_at"`
}

type FixedDeposit struct {
	ID                  int       `db:"id"`
	TotalSavings        float64   `db:"total_savings"`
	MonthlyInterest     float64   `db:"monthly_interest"`
	AccumulatedInterest float64   `db:"accumulated_interest"`
	LastUpdated         time.Time `db:"last_updated"`
}

// Table is a rendered report: header names and one formatted row per record.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}
