package dto

import (
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
)

type ApplyLoanRequestDTO struct {
	MemberID     int     `json:"member_id" example:"1"`
	Amount       float64 `json:"amount" example:"4000"`
	LoanType     string  `json:"loan_type" example:"Emergency"`
	GuarantorIDs []int   `json:"guarantor_ids" example:"2,3"`
}

type RepaymentRequestDTO struct {
	Amount float64 `json:"amount" example:"1200"`
}

type LoanResponseDTO struct {
	ID                 int     `json:"id" example:"1"`
	MemberID           int     `json:"member_id" example:"1"`
	Amount             float64 `json:"amount" example:"4000"`
	LoanType           string  `json:"loan_type" example:"Emergency"`
	InterestRate       float64 `json:"interest_rate" example:"30"`
	RepaymentPeriod    int     `json:"repayment_period" example:"12"`
	MonthlyRepayment   float64 `json:"monthly_repayment" example:"433.33"`
	OutstandingBalance float64 `json:"outstanding_balance" example:"4000"`
	GuarantorIDs       string  `json:"guarantor_ids" example:"2,3"`
	Status             string  `json:"status" example:"Active"`
	CreatedAt          string  `json:"created_at" example:"2024-05-20T10:00:00Z"`
}

func NewLoanResponse(l domain.Loan) LoanResponseDTO {
	return LoanResponseDTO{
		ID:                 l.ID,
		MemberID:           l.MemberID,
		Amount:             l.Amount,
		LoanType:           l.LoanType,
		InterestRate:       l.InterestRate,
		RepaymentPeriod:    l.RepaymentPeriod,
		MonthlyRepayment:   l.MonthlyRepayment,
		OutstandingBalance: l.OutstandingBalance,
		GuarantorIDs:       l.GuarantorIDs,
		Status:             l.Status,
		CreatedAt:          l.CreatedAt.Format(time.RFC3339),
	}
}
