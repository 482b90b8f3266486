package deposits

import (
	"context"
	"errors"
	"net/http"

	"github.com/GlebRadaev/fedha/internal/accrual"
	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/dto"
	"github.com/GlebRadaev/fedha/pkg/utils"
)

//go:generate mockgen -source=deposits.go -destination=mock_deposits.go -package=deposits

type Service interface {
	Accrue(ctx context.Context) (*domain.FixedDeposit, error)
	Current(ctx context.Context) (*domain.FixedDeposit, error)
	History(ctx context.Context) ([]domain.FixedDeposit, error)
}

type DepositHandler struct {
	accrualService Service
}

func New(accrualService Service) *DepositHandler {
	return &DepositHandler{
		accrualService: accrualService,
	}
}

// Accrue godoc
//
//	@Summary		Run fixed deposit accrual
//	@Description	Snapshots the shares of members without an active loan and books 0.6% monthly interest for every whole month since the previous snapshot.
//	@Tags			Fixed deposits
//	@Security		BearerAuth
//	@Produce		json
//	@Success		201	{object}	utils.Response{data=dto.FixedDepositResponseDTO}
//	@Failure		401	{object}	utils.Response	"Operator not authorized"
//	@Failure		422	{object}	utils.Response	"No savings available, no snapshot posted"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/deposits/accrue [post]
func (h *DepositHandler) Accrue(w http.ResponseWriter, r *http.Request) {
	deposit, err := h.accrualService.Accrue(r.Context())
	if err != nil {
		if errors.Is(err, accrual.ErrNoSavings) {
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error()+"; no snapshot was posted")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, "Fixed deposit updated successfully", dto.NewFixedDepositResponse(*deposit))
}

// Current godoc
//
//	@Summary		Latest fixed deposit snapshot
//	@Tags			Fixed deposits
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response{data=dto.FixedDepositResponseDTO}
//	@Failure		404	{object}	utils.Response	"No snapshot yet"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/deposits/current [get]
func (h *DepositHandler) Current(w http.ResponseWriter, r *http.Request) {
	deposit, err := h.accrualService.Current(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if deposit == nil {
		utils.RespondWithError(w, http.StatusNotFound, "No fixed deposit records found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, "", dto.NewFixedDepositResponse(*deposit))
}

// History godoc
//
//	@Summary		Fixed deposit history
//	@Tags			Fixed deposits
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response{data=[]dto.FixedDepositResponseDTO}
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/deposits [get]
func (h *DepositHandler) History(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.accrualService.History(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.FixedDepositResponseDTO, 0, len(deposits))
	for _, d := range deposits {
		response = append(response, dto.NewFixedDepositResponse(d))
	}
	utils.RespondWithData(w, http.StatusOK, "", response)
}
