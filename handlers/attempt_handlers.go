package handlers

import (
	"net/http"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

type AttemptHandlers struct {
	recorder *quiz.Recorder
}

func NewAttemptHandlers(recorder *quiz.Recorder) *AttemptHandlers {
	return &AttemptHandlers{recorder: recorder}
}

type resultResponse struct {
	Result *models.Result `json:"result"`
	Band   string         `json:"band"`
}

func (h *AttemptHandlers) startAttempt(w http.ResponseWriter, r *http.Request) {
	view, err := h.recorder.StartAttempt(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *AttemptHandlers) submitAttempt(w http.ResponseWriter, r *http.Request) {
	answers, ok := decodeAnswers(w, r)
	if !ok {
		return
	}
	result, err := h.recorder.SubmitAttempt(r.Context(), r.PathValue("id"), answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: result, Band: quiz.Band(result.Percentage)})
}

func (h *AttemptHandlers) submitQuiz(w http.ResponseWriter, r *http.Request) {
	answers, ok := decodeAnswers(w, r)
	if !ok {
		return
	}
	result, err := h.recorder.SubmitQuiz(r.Context(), r.PathValue("id"), answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resultResponse{Result: result, Band: quiz.Band(result.Percentage)})
}

func decodeAnswers(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	var req models.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		writeServiceError(w, quiz.Validation("answers are required", fields))
		return nil, false
	}
	return req.Answers, true
}
