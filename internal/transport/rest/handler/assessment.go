package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"talentflow/internal/logger"
	"talentflow/internal/model"
	"talentflow/internal/service"
)

// AssessmentHandler handles assessment builder endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
	log           *logger.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService, log *logger.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentSvc: assessmentSvc,
		log:           log,
	}
}

// SectionRequest is the body for adding or updating a section
type SectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ReorderRequest moves the item at From to To
type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *AssessmentHandler) respond(w http.ResponseWriter, status int, a *model.Assessment, err error) {
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, status, a)
}

// Get handles GET /v1/assessments/{jobId}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.assessmentSvc.GetByJobID(r.Context(), mux.Vars(r)["jobId"])
	h.respond(w, http.StatusOK, a, err)
}

// Update handles PUT /v1/assessments/{jobId}
func (h *AssessmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var a model.Assessment
	if err := decode(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.assessmentSvc.Update(r.Context(), mux.Vars(r)["jobId"], &a)
	h.respond(w, http.StatusOK, saved, err)
}

// Check handles POST /v1/assessments/{jobId}/check
func (h *AssessmentHandler) Check(w http.ResponseWriter, r *http.Request) {
	var a model.Assessment
	if err := decode(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a.JobID = mux.Vars(r)["jobId"]

	writeJSON(w, http.StatusOK, h.assessmentSvc.Check(&a))
}

// AddSection handles POST /v1/assessments/{jobId}/sections
func (h *AssessmentHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	var req SectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.assessmentSvc.AddSection(r.Context(), mux.Vars(r)["jobId"], model.Section{
		Title:       req.Title,
		Description: req.Description,
	})
	h.respond(w, http.StatusCreated, a, err)
}

// UpdateSection handles PUT /v1/assessments/{jobId}/sections/{sectionId}
func (h *AssessmentHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req SectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.assessmentSvc.UpdateSection(r.Context(), vars["jobId"], vars["sectionId"], req.Title, req.Description)
	h.respond(w, http.StatusOK, a, err)
}

// DeleteSection handles DELETE /v1/assessments/{jobId}/sections/{sectionId}
func (h *AssessmentHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := h.assessmentSvc.DeleteSection(r.Context(), vars["jobId"], vars["sectionId"])
	h.respond(w, http.StatusOK, a, err)
}

// ReorderSections handles POST /v1/assessments/{jobId}/sections/reorder
func (h *AssessmentHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.assessmentSvc.ReorderSections(r.Context(), mux.Vars(r)["jobId"], req.From, req.To)
	h.respond(w, http.StatusOK, a, err)
}

// AddQuestion handles POST /v1/assessments/{jobId}/sections/{sectionId}/questions
func (h *AssessmentHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var q model.Question
	if err := decode(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.assessmentSvc.AddQuestion(r.Context(), vars["jobId"], vars["sectionId"], q)
	h.respond(w, http.StatusCreated, a, err)
}

// UpdateQuestion handles PUT /v1/assessments/{jobId}/sections/{sectionId}/questions/{questionId}
func (h *AssessmentHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var q model.Question
	if err := decode(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.assessmentSvc.UpdateQuestion(r.Context(), vars["jobId"], vars["sectionId"], vars["questionId"], q)
	h.respond(w, http.StatusOK, a, err)
}

// DeleteQuestion handles DELETE /v1/assessments/{jobId}/sections/{sectionId}/questions/{questionId}
func (h *AssessmentHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := h.assessmentSvc.DeleteQuestion(r.Context(), vars["jobId"], vars["sectionId"], vars["questionId"])
	h.respond(w, http.StatusOK, a, err)
}

// ReorderQuestions handles POST /v1/assessments/{jobId}/sections/{sectionId}/questions/reorder
func (h *AssessmentHandler) ReorderQuestions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req ReorderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.assessmentSvc.ReorderQuestions(r.Context(), vars["jobId"], vars["sectionId"], req.From, req.To)
	h.respond(w, http.StatusOK, a, err)
}

// Dependencies handles GET /v1/assessments/{jobId}/questions/{questionId}/dependencies
func (h *AssessmentHandler) Dependencies(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	questions, err := h.assessmentSvc.AvailableDependencies(r.Context(), vars["jobId"], vars["questionId"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}
