package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"talentflow/internal/logger"
	"talentflow/internal/model"
	"talentflow/internal/service"
	"talentflow/internal/transport/rest/middleware"
)

// RespondHandler handles candidate endpoints. The assessment and candidate
// always come from the token, never from the URL.
type RespondHandler struct {
	responseSvc *service.ResponseService
	log         *logger.Logger
}

// NewRespondHandler creates a new respond handler
func NewRespondHandler(responseSvc *service.ResponseService, log *logger.Logger) *RespondHandler {
	return &RespondHandler{
		responseSvc: responseSvc,
		log:         log,
	}
}

// SaveAnswerRequest carries one answer. Value is a string, an array of
// strings, a number, a file object or null.
type SaveAnswerRequest struct {
	Value json.RawMessage `json:"value"`
}

// State handles GET /v1/respond/state
func (h *RespondHandler) State(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := h.responseSvc.State(ctx, middleware.GetAssessmentID(ctx), middleware.GetCandidateID(ctx))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// SaveAnswer handles PUT /v1/respond/answers/{questionId}
func (h *RespondHandler) SaveAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SaveAnswerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Value) == 0 {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}
	var value model.Value
	if err := json.Unmarshal(req.Value, &value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.responseSvc.SaveAnswer(ctx,
		middleware.GetAssessmentID(ctx),
		middleware.GetCandidateID(ctx),
		mux.Vars(r)["questionId"],
		value,
	)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ValidateSection handles POST /v1/respond/sections/{sectionId}/validate
func (h *RespondHandler) ValidateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	check, err := h.responseSvc.ValidateSection(ctx,
		middleware.GetAssessmentID(ctx),
		middleware.GetCandidateID(ctx),
		mux.Vars(r)["sectionId"],
	)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, check)
}

// Submit handles POST /v1/respond/submit
func (h *RespondHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := h.responseSvc.Submit(ctx, middleware.GetAssessmentID(ctx), middleware.GetCandidateID(ctx))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
