package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/dtr-backend-go/internal/service/capture"
	"github.com/go-chi/chi/v5"
)

type CaptureHandler interface {
	// Get streams a stored face capture. Employees may read only their own.
	Get(w http.ResponseWriter, r *http.Request)
}

type captureHandlerImpl struct {
	captureService capture.CaptureService
}

func NewCaptureHandler(captureService capture.CaptureService) CaptureHandler {
	return &captureHandlerImpl{captureService: captureService}
}

// Get handles GET /captures/{userID}/*
func (h *captureHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	requesterID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ownerID := chi.URLParam(r, "userID")
	if ownerID != requesterID && currentRole(r) != user.RoleAdmin {
		response.HandleError(w, user.ErrAdminPrivilegeRequired)
		return
	}

	key, ok := capture.UserKey(ownerID, chi.URLParam(r, "*"))
	if !ok {
		response.BadRequest(w, "Invalid capture path", nil)
		return
	}

	rc, err := h.captureService.Open(r.Context(), key)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("capture stream interrupted", "key", key, "error", err)
	}
}
