package loans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/dto"
	"github.com/GlebRadaev/fedha/internal/service/loanservice"
	"github.com/GlebRadaev/fedha/pkg/utils"
	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=loans.go -destination=mock_loans.go -package=loans

type Service interface {
	Apply(ctx context.Context, app loanservice.Application) (*domain.Loan, error)
	Repay(ctx context.Context, loanID int, amount float64) (*domain.Loan, error)
	Get(ctx context.Context, loanID int) (*domain.Loan, error)
	List(ctx context.Context) ([]domain.Loan, error)
}

type LoanHandler struct {
	loanService Service
}

func New(loanService Service) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, loanservice.ErrMemberNotFound), errors.Is(err, loanservice.ErrLoanNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, loanservice.ErrInvalidAmount),
		errors.Is(err, loanservice.ErrUnknownLoanType),
		errors.Is(err, loanservice.ErrNotEligible),
		errors.Is(err, loanservice.ErrExceedsLimit):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func loanID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// Apply godoc
//
//	@Summary		Apply for a loan
//	@Description	Accepts the loan when the member's contributions are at least 4000 and the amount is within the limit for the loan type.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ApplyLoanRequestDTO	true	"Loan application"
//	@Success		201		{object}	utils.Response{data=dto.LoanResponseDTO}
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Member not found"
//	@Failure		422		{object}	utils.Response	"Loan rules violated"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/loans [post]
func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyLoanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loan, err := h.loanService.Apply(r.Context(), loanservice.Application{
		MemberID:     req.MemberID,
		Amount:       req.Amount,
		LoanType:     req.LoanType,
		GuarantorIDs: req.GuarantorIDs,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, "Loan applied successfully", dto.NewLoanResponse(*loan))
}

// Repay godoc
//
//	@Summary		Repay a loan
//	@Description	Reduces the outstanding balance. The balance never goes below zero and a zero balance clears the loan.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Loan ID"
//	@Param			request	body		dto.RepaymentRequestDTO	true	"Repayment"
//	@Success		200		{object}	utils.Response{data=dto.LoanResponseDTO}
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		404		{object}	utils.Response	"Loan not found"
//	@Failure		422		{object}	utils.Response	"Amount must be positive"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/loans/{id}/repayments [post]
func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	id, ok := loanID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid loan id")
		return
	}
	var req dto.RepaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loan, err := h.loanService.Repay(r.Context(), id, req.Amount)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, "Repayment successful", dto.NewLoanResponse(*loan))
}

// Get godoc
//
//	@Summary		Loan details
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Loan ID"
//	@Success		200	{object}	utils.Response{data=dto.LoanResponseDTO}
//	@Failure		400	{object}	utils.Response	"Invalid loan id"
//	@Failure		404	{object}	utils.Response	"Loan not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/loans/{id} [get]
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := loanID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid loan id")
		return
	}

	loan, err := h.loanService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, "", dto.NewLoanResponse(*loan))
}

// List godoc
//
//	@Summary		List loans
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response{data=[]dto.LoanResponseDTO}
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/loans [get]
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	response := make([]dto.LoanResponseDTO, 0, len(loans))
	for _, l := range loans {
		response = append(response, dto.NewLoanResponse(l))
	}
	utils.RespondWithData(w, http.StatusOK, "", response)
}
