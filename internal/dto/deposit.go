package dto

import "github.com/GlebRadaev/fedha/internal/domain"

type FixedDepositResponseDTO struct {
	ID                  int     `json:"id" example:"1"`
	TotalSavings        float64 `json:"total_savings" example:"100000"`
	MonthlyInterest     float64 `json:"monthly_interest" example:"600"`
	AccumulatedInterest float64 `json:"accumulated_interest" example:"600"`
	LastUpdated         string  `json:"last_updated" example:"2024-05-20"`
}

func NewFixedDepositResponse(d domain.FixedDeposit) FixedDepositResponseDTO {
	return FixedDepositResponseDTO{
		ID:                  d.ID,
		TotalSavings:        d.TotalSavings,
		MonthlyInterest:     d.MonthlyInterest,
		AccumulatedInterest: d.AccumulatedInterest,
		LastUpdated:         d.LastUpdated.Format("2006-01-02"),
	}
}
