package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/adamspd/QuizTrack/auth"
	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

// UserAccounts is the account storage used by signup and login.
type UserAccounts interface {
	CreateUser(ctx context.Context, user *models.User, passwordHash string) error
	GetUserWithHash(ctx context.Context, email string) (*models.User, string, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type AuthHandlers struct {
	users    UserAccounts
	sessions auth.SessionStore
}

func NewAuthHandlers(users UserAccounts, sessions auth.SessionStore) *AuthHandlers {
	return &AuthHandlers{users: users, sessions: sessions}
}

type authResponse struct {
	User     *models.User    `json:"user"`
	Session  *models.Session `json:"session"`
	Redirect string          `json:"redirect"`
	Message  string          `json:"message"`
}

// signup always creates a student; admins are bootstrapped from config.
func (ah *AuthHandlers) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if fields := utils.ValidateStruct(req); fields != nil {
		writeServiceError(w, quiz.Validation("invalid signup request", fields))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		writeServiceError(w, quiz.Validation(err.Error(), nil))
		return
	}

	user := &models.User{
		ID:        utils.NewID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		Role:      models.RoleStudent,
		Rank:      quiz.NoRank,
		CreatedAt: time.Now().UTC(),
	}
	if err := ah.users.CreateUser(r.Context(), user, hash); err != nil {
		writeServiceError(w, quiz.StoreFailure("create user", err))
		return
	}

	session, err := ah.startSession(w, r, user)
	if err != nil {
		return
	}

	utils.LogHTTP("User registered successfully: %s (ID: %s)", user.Email, user.ID)
	writeJSON(w, http.StatusCreated, authResponse{
		User:     user,
		Session:  session,
		Redirect: session.HomePath(),
		Message:  "Registration successful",
	})
}

func (ah *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		writeServiceError(w, quiz.Validation("invalid login request", fields))
		return
	}

	user, hash, err := ah.users.GetUserWithHash(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			utils.LogHTTP("Login failed for %s: unknown email", req.Email)
			writeError(w, http.StatusUnauthorized, quiz.KindUnauthenticated, "invalid credentials")
			return
		}
		writeServiceError(w, quiz.StoreFailure("load user", err))
		return
	}
	if !utils.CheckPassword(hash, req.Password) {
		utils.LogHTTP("Login failed for %s: bad password", req.Email)
		writeError(w, http.StatusUnauthorized, quiz.KindUnauthenticated, "invalid credentials")
		return
	}

	session, err := ah.startSession(w, r, user)
	if err != nil {
		return
	}

	utils.LogHTTP("User logged in successfully: %s (ID: %s)", user.Email, user.ID)
	writeJSON(w, http.StatusOK, authResponse{
		User:     user,
		Session:  session,
		Redirect: session.HomePath(),
		Message:  "Login successful",
	})
}

func (ah *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	sessionID := extractSessionFromRequest(r)
	if sessionID != "" {
		if err := ah.sessions.DeleteSession(r.Context(), sessionID); err != nil {
			utils.LogError("Failed to delete session %s: %v", utils.ShortToken(sessionID), err)
		} else {
			utils.LogHTTP("Session %s destroyed", utils.ShortToken(sessionID))
		}
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (ah *AuthHandlers) me(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	user, err := ah.users.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, quiz.StoreFailure("load user", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":     user,
		"redirect": session.HomePath(),
	})
}

func (ah *AuthHandlers) startSession(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Session, error) {
	session, err := ah.sessions.CreateSession(r.Context(), user)
	if err != nil {
		utils.LogError("Failed to create session for %s: %v", user.ID, err)
		writeError(w, http.StatusServiceUnavailable, quiz.KindStore, "could not create session")
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session, nil
}
