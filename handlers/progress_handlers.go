package handlers

import (
	"net/http"

	"github.com/adamspd/QuizTrack/quiz"
)

type ProgressHandlers struct {
	progress *quiz.ProgressService
}

func NewProgressHandlers(progress *quiz.ProgressService) *ProgressHandlers {
	return &ProgressHandlers{progress: progress}
}

func (ph *ProgressHandlers) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := ph.progress.AvailableQuizzes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (ph *ProgressHandlers) dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := ph.progress.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (ph *ProgressHandlers) history(w http.ResponseWriter, r *http.Request) {
	history, err := ph.progress.History(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

func (ph *ProgressHandlers) latest(w http.ResponseWriter, r *http.Request) {
	latest, err := ph.progress.Latest(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}
