package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"talentflow/internal/logger"
	"talentflow/internal/model"
	"talentflow/internal/service"
)

// ResponseHandler serves author-side views of candidate responses
type ResponseHandler struct {
	authSvc       *service.AuthService
	assessmentSvc *service.AssessmentService
	responseSvc   *service.ResponseService
	log           *logger.Logger
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(authSvc *service.AuthService, assessmentSvc *service.AssessmentService, responseSvc *service.ResponseService, log *logger.Logger) *ResponseHandler {
	return &ResponseHandler{
		authSvc:       authSvc,
		assessmentSvc: assessmentSvc,
		responseSvc:   responseSvc,
		log:           log,
	}
}

// Invite handles POST /v1/assessments/{assessmentId}/invites
func (h *ResponseHandler) Invite(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]

	var req model.InviteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.assessmentSvc.GetByID(r.Context(), assessmentID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	invite, err := h.authSvc.Invite(assessmentID, req.CandidateID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, invite)
}

// Progress handles GET /v1/assessments/{assessmentId}/progress
func (h *ResponseHandler) Progress(w http.ResponseWriter, r *http.Request) {
	entries, err := h.responseSvc.Progress(r.Context(), mux.Vars(r)["assessmentId"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": entries})
}

// ListByAssessment handles GET /v1/assessments/{assessmentId}/responses
func (h *ResponseHandler) ListByAssessment(w http.ResponseWriter, r *http.Request) {
	responses, err := h.responseSvc.ListByAssessment(r.Context(), mux.Vars(r)["assessmentId"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}

// ListByCandidate handles GET /v1/candidates/{candidateId}/responses
func (h *ResponseHandler) ListByCandidate(w http.ResponseWriter, r *http.Request) {
	responses, err := h.responseSvc.ListByCandidate(r.Context(), mux.Vars(r)["candidateId"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}
