package dto

import (
	"time"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/rules"
)

type AddMemberRequestDTO struct {
	FullName string  `json:"full_name" example:"Amina Otieno"`
	Age      int     `json:"age" example:"22"`
	Shares   float64 `json:"shares" example:"5000"`
}

type MemberResponseDTO struct {
	ID                 int     `json:"id" example:"1"`
	FullName           string  `json:"full_name" example:"Amina Otieno"`
	Age                int     `json:"age" example:"22"`
	Shares             float64 `json:"shares" example:"5000"`
	RegistrationFee    float64 `json:"registration_fee" example:"1000"`
	OutstandingLoan    float64 `json:"outstanding_loan" example:"0"`
	ExitNoticeGiven    bool    `json:"exit_notice_given" example:"false"`
	Dividends          float64 `json:"dividends" example:"0"`
	SuggestedLoanType  string  `json:"suggested_loan_type" example:"Emergency"`
	SuggestedMaxAmount float64 `json:"suggested_max_amount" example:"5000"`
}

func NewMemberResponse(m domain.Member) MemberResponseDTO {
	loanType, maxAmount := rules.SuggestTier(m.Shares)
	return MemberResponseDTO{
		ID:                 m.ID,
		FullName:           m.FullName,
		Age:                m.Age,
		Shares:             m.Shares,
		RegistrationFee:    m.RegistrationFee,
		OutstandingLoan:    m.OutstandingLoan,
		ExitNoticeGiven:    m.ExitNoticeGiven,
		Dividends:          m.Dividends,
		SuggestedLoanType:  string(loanType),
		SuggestedMaxAmount: maxAmount,
	}
}

type MemberSummaryResponseDTO struct {
	TotalShares           float64 `json:"total_shares" example:"25000"`
	TotalRegistrationFees float64 `json:"total_registration_fees" example:"5000"`
}

type ContributionRequestDTO struct {
	Amount float64 `json:"amount" example:"500"`
}

type ContributionResponseDTO struct {
	ID            int     `json:"id" example:"1"`
	MemberID      int     `json:"member_id" example:"1"`
	Amount        float64 `json:"amount" example:"500"`
	ContributedAt string  `json:"contributed_at" example:"2024-05-20T10:00:00Z"`
}

func NewContributionResponse(c domain.Contribution) ContributionResponseDTO {
	return ContributionResponseDTO{
		ID:            c.ID,
		MemberID:      c.MemberID,
		Amount:        c.Amount,
		ContributedAt: c.ContributedAt.Format(time.RFC3339),
	}
}

type ExitNoticeRequestDTO struct {
	Given bool `json:"given" example:"true"`
}

type LoanLimitDTO struct {
	LoanType     string  `json:"loan_type" example:"Short"`
	MaxPrincipal float64 `json:"max_principal" example:"10000"`
}

type EligibilityResponseDTO struct {
	MemberID           int            `json:"member_id" example:"1"`
	TotalContributions float64        `json:"total_contributions" example:"5000"`
	Eligible           bool           `json:"eligible" example:"true"`
	Limits             []LoanLimitDTO `json:"limits"`
}
