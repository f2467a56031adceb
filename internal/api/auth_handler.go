package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/soundsteps/soundsteps-api/internal/api/shared"
	"github.com/soundsteps/soundsteps-api/internal/domain"
	"github.com/soundsteps/soundsteps-api/internal/redact"
	"github.com/soundsteps/soundsteps-api/internal/service/auth"
	"github.com/soundsteps/soundsteps-api/internal/store"
)

// AuthHandler handles learner registration and login.
type AuthHandler struct {
	learnerStore     store.LearnerStore
	tokenService     auth.TokenService
	passwordVerifier auth.PasswordVerifier
	tokenLifetime    time.Duration
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	learnerStore store.LearnerStore,
	tokenService auth.TokenService,
	passwordVerifier auth.PasswordVerifier,
	tokenLifetime time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	if learnerStore == nil {
		panic("learnerStore cannot be nil")
	}
	if tokenService == nil {
		panic("tokenService cannot be nil")
	}
	if passwordVerifier == nil {
		panic("passwordVerifier cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &AuthHandler{
		learnerStore:     learnerStore,
		tokenService:     tokenService,
		passwordVerifier: passwordVerifier,
		tokenLifetime:    tokenLifetime,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles the registration of a new learner account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid registration details")
		return
	}

	learner, err := domain.NewLearner(req.Email, req.DisplayName, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	hashed, err := h.passwordVerifier.Hash(req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to register account", err)
		return
	}
	learner.HashedPassword = hashed
	learner.Password = ""

	if err := h.learnerStore.Create(r.Context(), learner); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), learner.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Account created but session could not be started", err)
		return
	}

	h.logger.Info("learner registered", slog.String("learner_id", learner.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, TokenResponse{
		Token:       token,
		LearnerID:   learner.ID.String(),
		DisplayName: learner.DisplayName,
		ExpiresAt:   time.Now().UTC().Add(h.tokenLifetime),
	})
}

// Login authenticates a learner and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid login details")
		return
	}

	learner, err := h.learnerStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrLearnerNotFound) {
			// Same response as a wrong password so the endpoint does not
			// reveal which emails are registered.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to log in", err)
		return
	}

	if err := h.passwordVerifier.Compare(learner.HashedPassword, req.Password); err != nil {
		h.logger.Debug("password mismatch",
			slog.String("learner_id", learner.ID.String()),
			slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), learner.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to log in", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		Token:       token,
		LearnerID:   learner.ID.String(),
		DisplayName: learner.DisplayName,
		ExpiresAt:   time.Now().UTC().Add(h.tokenLifetime),
	})
}
