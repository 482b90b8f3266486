package members

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/dto"
	"github.com/GlebRadaev/fedha/internal/service/memberservice"
	"github.com/GlebRadaev/fedha/pkg/utils"
	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=members.go -destination=mock_members.go -package=members

type Service interface {
	AddMember(ctx context.Context, fullName string, age int, shares float64) (*domain.Member, error)
	GetMember(ctx context.Context, memberID int) (*domain.Member, error)
	ListMembers(ctx context.Context, name string) ([]domain.Member, error)
	Summary(ctx context.Context) (*domain.MemberSummary, error)
	AddContribution(ctx context.Context, memberID int, amount float64) (*domain.Contribution, error)
	SetExitNotice(ctx context.Context, memberID int, given bool) error
	Eligibility(ctx context.Context, memberID int) (*memberservice.Eligibility, error)
}

type MemberHandler struct {
	memberService Service
}

func New(memberService Service) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, memberservice.ErrMemberNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, memberservice.ErrInvalidName),
		errors.Is(err, memberservice.ErrAgeOutOfRange),
		errors.Is(err, memberservice.ErrSharesTooLow),
		errors.Is(err, memberservice.ErrInvalidContribution):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func memberID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// AddMember godoc
//
//	@Summary		Register a new member
//	@Description	Add a member aged 18 to 35 with at least 1000 in shares. The registration fee is fixed at 1000.
//	@Tags			Members
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.AddMemberRequestDTO	true	"Member details"
//	@Success		201		{object}	utils.Response{data=dto.MemberResponseDTO}
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Operator not authorized"
//	@Failure		422		{object}	utils.Response	"Validation failed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/members [post]
func (h *MemberHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req dto.AddMemberRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.memberService.AddMember(r.Context(), req.FullName, req.Age, req.Shares)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, "Member added successfully", dto.NewMemberResponse(*member))
}

// ListMembers godoc
//
//	@Summary		List members
//	@Description	List every member, or only those whose name contains the search text.
//	@Tags			Members
//	@Security		BearerAuth
//	@Produce		json
//	@Param			name	query		string	false	"Case-insensitive name search"
//	@Success		200		{object}	utils.Response{data=[]dto.MemberResponseDTO}
//	@Failure		401		{object}	utils.Response	"Operator not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/members [get]
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.ListMembers(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	response := make([]dto.MemberResponseDTO, 0, len(members))
	for _, m := range members {
		response = append(response, dto.NewMemberResponse(m))
	}
	utils.RespondWithData(w, http.StatusOK, "", response)
}

// GetMember godoc
//
//	@Summary		Get member
//	@Tags			Members
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Member ID"
//	@Success		200	{object}	utils.Response{data=dto.MemberResponseDTO}
//	@Failure		400	{object}	utils.Response	"Invalid member id"
//	@Failure		404	{object}	utils.Response	"Member not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/members/{id} [get]
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	member, err := h.memberService.GetMember(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, "", dto.NewMemberResponse(*member))
}

// Summary godoc
//
//	@Summary		Members totals
//	@Description	Total shares and total registration fees across all members.
//	@Tags			Members
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response{data=dto.MemberSummaryResponseDTO}
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/members/summary [get]
func (h *MemberHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.memberService.Summary(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, "", dto.MemberSummaryResponseDTO{
		TotalShares:           summary.TotalShares,
		TotalRegistrationFees: summary.TotalRegistrationFees,
	})
}

// AddContribution godoc
//
//	@Summary		Record a contribution
//	@Description	Add an amount to the member's contributions ledger, which drives loan eligibility.
//	@Tags			Members
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Member ID"
//	@Param			request	body		dto.ContributionRequestDTO	true	"Contribution"
//	@Success		201		{object}	utils.Response{data=dto.ContributionResponseDTO}
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		404		{object}	utils.Response	"Member not found"
//	@Failure		422		{object}	utils.Response	"Amount must be positive"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/members/{id}/contributions [post]
func (h *MemberHandler) AddContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid member id")
		return
	}
	var req dto.ContributionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contribution, err := h.memberService.AddContribution(r.Context(), id, req.Amount)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, "Contribution recorded", dto.NewContributionResponse(*contribution))
}

// SetExitNotice godoc
//
//	@Summary		Set exit notice
//	@Tags			Members
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Member ID"
//	@Param			request	body		dto.ExitNoticeRequestDTO	true	"Exit notice flag"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		404		{object}	utils.Response	"Member not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/members/{id}/exit-notice [put]
func (h *MemberHandler) SetExitNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid member id")
		return
	}
	var req dto.ExitNoticeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.memberService.SetExitNotice(r.Context(), id, req.Given); err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, "Exit notice updated", nil)
}

// Eligibility godoc
//
//	@Summary		Loan eligibility
//	@Description	Contributions total, eligibility flag and the borrowing limit for each loan type.
//	@Tags			Members
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Member ID"
//	@Success		200	{object}	utils.Response{data=dto.EligibilityResponseDTO}
//	@Failure		400	{object}	utils.Response	"Invalid member id"
//	@Failure		404	{object}	utils.Response	"Member not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/members/{id}/eligibility [get]
func (h *MemberHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	eligibility, err := h.memberService.Eligibility(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	response := dto.EligibilityResponseDTO{
		MemberID:           eligibility.MemberID,
		TotalContributions: eligibility.TotalContributions,
		Eligible:           eligibility.Eligible,
		Limits:             make([]dto.LoanLimitDTO, 0, len(eligibility.Limits)),
	}
	for _, l := range eligibility.Limits {
		response.Limits = append(response.Limits, dto.LoanLimitDTO{LoanType: string(l.LoanType), MaxPrincipal: l.MaxPrincipal})
	}
	utils.RespondWithData(w, http.StatusOK, "", response)
}
