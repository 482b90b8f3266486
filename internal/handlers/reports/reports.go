package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/GlebRadaev/fedha/internal/dto"
	"github.com/GlebRadaev/fedha/internal/service/reportservice"
	"github.com/GlebRadaev/fedha/pkg/utils"
	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=reports.go -destination=mock_reports.go -package=reports

type Service interface {
	Generate(ctx context.Context, kind reportservice.Kind) (*domain.Table, error)
	WriteCSV(ctx context.Context, kind reportservice.Kind, w io.Writer) error
	Export(ctx context.Context, kind reportservice.Kind, fileName string) (*reportservice.Export, error)
}

type ReportHandler struct {
	reportService Service
}

func New(reportService Service) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func reportKind(w http.ResponseWriter, r *http.Request) (reportservice.Kind, bool) {
	kind, ok := reportservice.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, reportservice.ErrUnknownKind.Error())
	}
	return kind, ok
}

// Generate godoc
//
//	@Summary		Generate a report
//	@Description	Kinds: members, loans, fixed-deposits, dividends, revenue, exiting-members.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			kind	path		string	true	"Report kind"
//	@Success		200		{object}	utils.Response{data=dto.ReportResponseDTO}
//	@Failure		404		{object}	utils.Response	"Unknown report kind"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/reports/{kind} [get]
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	kind, ok := reportKind(w, r)
	if !ok {
		return
	}

	table, err := h.reportService.Generate(r.Context(), kind)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithData(w, http.StatusOK, "", dto.ReportResponseDTO{
		Title:   table.Title,
		Columns: table.Columns,
		Rows:    table.Rows,
	})
}

// CSV godoc
//
//	@Summary		Download a report as CSV
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		text/csv
//	@Param			kind	path		string	true	"Report kind"
//	@Success		200		{string}	string	"CSV payload"
//	@Failure		404		{object}	utils.Response	"Unknown report kind"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/reports/{kind}/csv [get]
func (h *ReportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	kind, ok := reportKind(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.WriteCSV(r.Context(), kind, &buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(kind)+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Export godoc
//
//	@Summary		Export a report to the server
//	@Description	Writes the report as CSV into the export directory and returns its location.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			kind	path		string					true	"Report kind"
//	@Param			request	body		dto.ExportRequestDTO	false	"Optional file name"
//	@Success		201		{object}	utils.Response{data=dto.ExportResponseDTO}
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		404		{object}	utils.Response	"Unknown report kind"
//	@Failure		500		{object}	utils.Response	"Export failed"
//	@Router			/api/reports/{kind}/export [post]
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind, ok := reportKind(w, r)
	if !ok {
		return
	}
	var req dto.ExportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.reportService.Export(r.Context(), kind, req.FileName)
	if err != nil {
		switch {
		case errors.Is(err, reportservice.ErrInvalidFileName):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, reportservice.ErrExport):
			utils.RespondWithError(w, http.StatusInternalServerError, reportservice.ErrExport.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithData(w, http.StatusCreated, "Report exported successfully", dto.ExportResponseDTO{
		Path:     result.Path,
		Checksum: result.Checksum,
	})
}
