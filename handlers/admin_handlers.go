package handlers

import (
	"net/http"

	"github.com/adamspd/QuizTrack/auth"
	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

type AdminHandlers struct {
	catalog  *quiz.CatalogService
	reports  *quiz.ReportService
	sessions auth.SessionStore
}

func NewAdminHandlers(catalog *quiz.CatalogService, reports *quiz.ReportService, sessions auth.SessionStore) *AdminHandlers {
	return &AdminHandlers{catalog: catalog, reports: reports, sessions: sessions}
}

func (h *AdminHandlers) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandlers) reportsList(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.QuizReports(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

func (h *AdminHandlers) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.catalog.ListQuizzes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (h *AdminHandlers) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.QuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	detail, err := h.catalog.CreateQuiz(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (h *AdminHandlers) getQuiz(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.GetQuiz(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *AdminHandlers) updateQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.QuizUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.catalog.UpdateQuiz(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandlers) toggleQuiz(w http.ResponseWriter, r *http.Request) {
	updated, err := h.catalog.ToggleActive(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandlers) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteQuiz(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.catalog.AddQuestion(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *AdminHandlers) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.catalog.UpdateQuestion(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *AdminHandlers) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteQuestion(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) quizResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.reports.QuizResults(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (h *AdminHandlers) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.reports.Students(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"students": students})
}

// deleteStudent also signs the student out everywhere.
func (h *AdminHandlers) deleteStudent(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if err := h.reports.DeleteStudent(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.sessions.DeleteUserSessions(r.Context(), userID); err != nil {
		utils.LogError("Failed to drop sessions for deleted student %s: %v", userID, err)
	}
	w.WriteHeader(http.StatusNoContent)
}
