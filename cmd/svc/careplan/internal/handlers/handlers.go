// Package handlers exposes the careplan operations as a JSON API. The
// service sits behind an authenticating gateway which supplies the acting
// account IDs; this surface trusts them.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/models"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/service"
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/golog"
	"github.com/bitmap357/hospital-test/libs/httputil"
)

type careplanService interface {
	CreateNote(ctx context.Context, doctorID, patientID uint64, content string) (*service.NoteResult, error)
	CheckIn(ctx context.Context, stepID models.StepID) error
	ActiveSteps(ctx context.Context, patientID uint64) ([]*models.ActionableStep, error)
	NoteContent(ctx context.Context, noteID models.NoteID, requesterID uint64) (string, error)
	AddCareTeamMembership(ctx context.Context, doctorID, patientID uint64) error
	PatientsForDoctor(ctx context.Context, doctorID uint64) ([]uint64, error)
}

// New returns the routed handler for the careplan API.
func New(svc careplanService) http.Handler {
	h := &handlers{svc: svc}
	mux := http.NewServeMux()
	mux.Handle("/notes", httputil.SupportedMethods(http.HandlerFunc(h.serveCreateNote), httputil.Post))
	mux.Handle("/notes/content", httputil.SupportedMethods(http.HandlerFunc(h.serveNoteContent), httputil.Get))
	mux.Handle("/steps", httputil.SupportedMethods(http.HandlerFunc(h.serveActiveSteps), httputil.Get))
	mux.Handle("/steps/checkin", httputil.SupportedMethods(http.HandlerFunc(h.serveCheckIn), httputil.Post))
	mux.Handle("/careteam", httputil.SupportedMethods(http.HandlerFunc(h.serveAddCareTeamMembership), httputil.Post))
	mux.Handle("/careteam/patients", httputil.SupportedMethods(http.HandlerFunc(h.servePatientsForDoctor), httputil.Get))
	return mux
}

type handlers struct {
	svc careplanService
}

type stepResponse struct {
	ID          string  `json:"id"`
	NoteID      string  `json:"note_id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Scheduled   *string `json:"scheduled,omitempty"`
	CheckedIn   bool    `json:"checked_in"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func transformSteps(steps []*models.ActionableStep) []*stepResponse {
	res := make([]*stepResponse, len(steps))
	for i, s := range steps {
		res[i] = &stepResponse{
			ID:          s.ID.String(),
			NoteID:      s.NoteID.String(),
			Type:        s.Type.SharedType(),
			Description: s.Description,
			CheckedIn:   s.CheckedIn,
		}
		if s.Scheduled != nil {
			sch := s.Scheduled.Format(time.RFC3339)
			res[i].Scheduled = &sch
		}
	}
	return res
}

func (h *handlers) serveCreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DoctorID  string `json:"doctor_id"`
		PatientID string `json:"patient_id"`
		Content   string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "failed to decode request body")
		return
	}
	doctorID, err := strconv.ParseUint(req.DoctorID, 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid doctor_id")
		return
	}
	patientID, err := strconv.ParseUint(req.PatientID, 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid patient_id")
		return
	}
	if req.Content == "" {
		writeBadRequest(w, "content required")
		return
	}

	res, err := h.svc.CreateNote(r.Context(), doctorID, patientID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, &struct {
		NoteID   string          `json:"note_id"`
		Fallback bool            `json:"fallback"`
		Steps    []*stepResponse `json:"steps"`
	}{
		NoteID:   res.Note.ID.String(),
		Fallback: res.Fallback,
		Steps:    transformSteps(res.Steps),
	})
}

func (h *handlers) serveNoteContent(w http.ResponseWriter, r *http.Request) {
	noteID, err := models.ParseNoteID(r.FormValue("note_id"))
	if err != nil {
		writeBadRequest(w, "invalid note_id")
		return
	}
	requesterID, err := strconv.ParseUint(r.FormValue("requester_id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid requester_id")
		return
	}

	content, err := h.svc.NoteContent(r.Context(), noteID, requesterID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, &struct {
		Content string `json:"content"`
	}{
		Content: content,
	})
}

func (h *handlers) serveActiveSteps(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseUint(r.FormValue("patient_id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid patient_id")
		return
	}

	steps, err := h.svc.ActiveSteps(r.Context(), patientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, &struct {
		Steps []*stepResponse `json:"steps"`
	}{
		Steps: transformSteps(steps),
	})
}

func (h *handlers) serveCheckIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StepID string `json:"step_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "failed to decode request body")
		return
	}
	stepID, err := models.ParseStepID(req.StepID)
	if err != nil {
		writeBadRequest(w, "invalid step_id")
		return
	}

	if err := h.svc.CheckIn(r.Context(), stepID); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, struct{}{})
}

func (h *handlers) serveAddCareTeamMembership(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DoctorID  string `json:"doctor_id"`
		PatientID string `json:"patient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "failed to decode request body")
		return
	}
	doctorID, err := strconv.ParseUint(req.DoctorID, 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid doctor_id")
		return
	}
	patientID, err := strconv.ParseUint(req.PatientID, 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid patient_id")
		return
	}

	if err := h.svc.AddCareTeamMembership(r.Context(), doctorID, patientID); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, struct{}{})
}

func (h *handlers) servePatientsForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseUint(r.FormValue("doctor_id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid doctor_id")
		return
	}

	patientIDs, err := h.svc.PatientsForDoctor(r.Context(), doctorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ids := make([]string, len(patientIDs))
	for i, id := range patientIDs {
		ids[i] = strconv.FormatUint(id, 10)
	}
	httputil.JSONResponse(w, http.StatusOK, &struct {
		PatientIDs []string `json:"patient_ids"`
	}{
		PatientIDs: ids,
	})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	httputil.JSONResponse(w, http.StatusBadRequest, &errorResponse{Error: msg})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch errors.Cause(err) {
	case service.ErrNotFound:
		httputil.JSONResponse(w, http.StatusNotFound, &errorResponse{Error: "not found"})
	case service.ErrUnauthorized:
		httputil.JSONResponse(w, http.StatusForbidden, &errorResponse{Error: "unauthorized"})
	default:
		golog.Errorf("careplan: internal error handling request: %s", err)
		httputil.JSONResponse(w, http.StatusInternalServerError, &errorResponse{Error: "internal error"})
	}
}
