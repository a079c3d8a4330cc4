package handlers

import (
	"net/http"

	"github.com/adamspd/QuizTrack/auth"
	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Users    UserAccounts
	Sessions auth.SessionStore
	Recorder *quiz.Recorder
	Progress *quiz.ProgressService
	Catalog  *quiz.CatalogService
	Reports  *quiz.ReportService
}

// API wrapper to hold all handlers
type API struct {
	authHandlers     *AuthHandlers
	attemptHandlers  *AttemptHandlers
	progressHandlers *ProgressHandlers
	adminHandlers    *AdminHandlers
}

func NewAPI(deps Deps) *API {
	return &API{
		authHandlers:     NewAuthHandlers(deps.Users, deps.Sessions),
		attemptHandlers:  NewAttemptHandlers(deps.Recorder),
		progressHandlers: NewProgressHandlers(deps.Progress),
		adminHandlers:    NewAdminHandlers(deps.Catalog, deps.Reports, deps.Sessions),
	}
}

func NewRouter(deps Deps) http.Handler {
	api := NewAPI(deps)
	authed := authMiddleware(deps.Sessions)
	student := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(requireRole(models.RoleStudent)(h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(requireRole(models.RoleAdmin)(h))
	}

	mux := http.NewServeMux()

	// Health check (no auth required)
	mux.HandleFunc("GET /health", healthCheck)

	// Auth endpoints
	mux.HandleFunc("POST /auth/signup", api.authHandlers.signup)
	mux.HandleFunc("POST /auth/login", api.authHandlers.login)
	mux.HandleFunc("POST /auth/logout", api.authHandlers.logout)
	mux.HandleFunc("GET /auth/me", authed(api.authHandlers.me))

	// Student routes
	mux.HandleFunc("GET /quizzes", student(api.progressHandlers.listQuizzes))
	mux.HandleFunc("POST /quizzes/{id}/attempts", student(api.attemptHandlers.startAttempt))
	mux.HandleFunc("POST /quizzes/{id}/submit", student(api.attemptHandlers.submitQuiz))
	mux.HandleFunc("POST /attempts/{id}/submit", student(api.attemptHandlers.submitAttempt))
	mux.HandleFunc("GET /progress/dashboard", student(api.progressHandlers.dashboard))
	mux.HandleFunc("GET /progress/history", student(api.progressHandlers.history))
	mux.HandleFunc("GET /progress/latest", student(api.progressHandlers.latest))

	// Admin routes
	mux.HandleFunc("GET /admin/dashboard", admin(api.adminHandlers.dashboard))
	mux.HandleFunc("GET /admin/reports", admin(api.adminHandlers.reportsList))
	mux.HandleFunc("GET /admin/quizzes", admin(api.adminHandlers.listQuizzes))
	mux.HandleFunc("POST /admin/quizzes", admin(api.adminHandlers.createQuiz))
	mux.HandleFunc("GET /admin/quizzes/{id}", admin(api.adminHandlers.getQuiz))
	mux.HandleFunc("PUT /admin/quizzes/{id}", admin(api.adminHandlers.updateQuiz))
	mux.HandleFunc("DELETE /admin/quizzes/{id}", admin(api.adminHandlers.deleteQuiz))
	mux.HandleFunc("POST /admin/quizzes/{id}/toggle", admin(api.adminHandlers.toggleQuiz))
	mux.HandleFunc("POST /admin/quizzes/{id}/questions", admin(api.adminHandlers.addQuestion))
	mux.HandleFunc("GET /admin/quizzes/{id}/results", admin(api.adminHandlers.quizResults))
	mux.HandleFunc("PUT /admin/questions/{id}", admin(api.adminHandlers.updateQuestion))
	mux.HandleFunc("DELETE /admin/questions/{id}", admin(api.adminHandlers.deleteQuestion))
	mux.HandleFunc("GET /admin/students", admin(api.adminHandlers.listStudents))
	mux.HandleFunc("DELETE /admin/students/{id}", admin(api.adminHandlers.deleteStudent))

	return corsMiddleware(loggingMiddleware(mux))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("Health check requested")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
