package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"talentflow/internal/logger"
	"talentflow/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	var authoringErr *service.AuthoringError
	var submissionErr *service.SubmissionError

	switch {
	case errors.As(err, &authoringErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "assessment has authoring errors",
			"errors": authoringErr.Report.Errors,
		})
	case errors.As(err, &submissionErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  err.Error(),
			"errors": submissionErr.Errors,
		})
	case errors.Is(err, service.ErrAssessmentNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidAssessment),
		errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, service.ErrMissingCandidate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
