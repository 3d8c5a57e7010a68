package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/response"
)

// maxCaptureBody leaves room for the JSON envelope around face_data.
const maxCaptureBody = attendance.MaxFaceDataBytes + 4<<10

type AttendanceHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
	TimeIn(w http.ResponseWriter, r *http.Request)
	TimeOut(w http.ResponseWriter, r *http.Request)
	ToggleBreak(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Dashboard implements AttendanceHandler.
func (h *attendanceHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Dashboard(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TimeIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) TimeIn(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.TimeInRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxCaptureBody)
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("TimeIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = userID

	result, err := h.attendanceService.TimeIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time in recorded!", result)
}

// TimeOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) TimeOut(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.TimeOutRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxCaptureBody)
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("TimeOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = userID

	result, err := h.attendanceService.TimeOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time out recorded!", result)
}

// ToggleBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) ToggleBreak(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ToggleBreak(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message(), result)
}
