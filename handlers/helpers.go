package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		utils.LogError("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, kind quiz.Kind, message string) {
	writeJSON(w, statusCode, errorResponse{Error: string(kind), Message: message})
}

// writeServiceError maps a quiz error kind onto an HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	var qe *quiz.Error
	if !errors.As(err, &qe) {
		utils.LogError("Unclassified error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "request failed"})
		return
	}

	status := http.StatusInternalServerError
	switch qe.Kind {
	case quiz.KindValidation:
		status = http.StatusBadRequest
		if len(qe.Fields) > 0 {
			status = http.StatusUnprocessableEntity
		}
	case quiz.KindInvalidQuizState:
		status = http.StatusConflict
	case quiz.KindUnauthenticated:
		status = http.StatusUnauthorized
	case quiz.KindForbidden:
		status = http.StatusForbidden
	case quiz.KindNotFound:
		status = http.StatusNotFound
	case quiz.KindStore:
		utils.LogError("Store failure: %v", err)
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, errorResponse{Error: string(qe.Kind), Message: qe.Message, Fields: qe.Fields})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		utils.LogHTTP("Invalid JSON in %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusBadRequest, quiz.KindValidation, "invalid JSON body")
		return false
	}
	return true
}
