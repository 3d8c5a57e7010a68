package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// MyHistory is the authenticated user's own history
	MyHistory(w http.ResponseWriter, r *http.Request)

	// UserHistory is any user's history, for admins
	UserHistory(w http.ResponseWriter, r *http.Request)

	ExportPDF(w http.ResponseWriter, r *http.Request)
	ExportXLSX(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// MyHistory handles GET /history
func (h *reportHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.history(w, r, userID)
}

// UserHistory handles GET /users/{id}/history
func (h *reportHandlerImpl) UserHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, chi.URLParam(r, "id"))
}

func (h *reportHandlerImpl) history(w http.ResponseWriter, r *http.Request, userID string) {
	result, err := h.reportService.UserHistory(r.Context(), report.HistoryRequest{UserID: userID})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ExportPDF handles GET /users/{id}/history/pdf
func (h *reportHandlerImpl) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.FormatPDF)
}

// ExportXLSX handles GET /users/{id}/history/xlsx
func (h *reportHandlerImpl) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.FormatXLSX)
}

func (h *reportHandlerImpl) export(w http.ResponseWriter, r *http.Request, format report.Format) {
	query := r.URL.Query()
	req := report.ExportRequest{
		HistoryRequest: report.HistoryRequest{
			UserID:    chi.URLParam(r, "id"),
			StartDate: query.Get("start_date"),
			EndDate:   query.Get("end_date"),
		},
		Format: format,
	}

	file, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		if errors.Is(err, report.ErrExportFailure) {
			slog.Error("export failed", "user_id", req.UserID, "format", format, "error", err)
			if response.RedirectBack(w, r, err.Error()) {
				return
			}
		}
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}
