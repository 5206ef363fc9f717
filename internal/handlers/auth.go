package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"habitude/internal/models"
	"habitude/internal/services"
	"habitude/internal/store"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
	resetTokenTTL   = time.Hour
)

// ResetMailer sends the password reset email. Kept as an interface so
// the handler stays testable and SMTP can be disabled in dev.
type ResetMailer interface {
	SendPasswordReset(to, name, token string) error
}

type AuthHandler struct {
	users         *store.Users
	mailer        ResetMailer
	jwtSecret     []byte
	refreshSecret []byte
}

func NewAuthHandler(users *store.Users, mailer ResetMailer, jwtSecret, refreshSecret []byte) *AuthHandler {
	return &AuthHandler{users: users, mailer: mailer, jwtSecret: jwtSecret, refreshSecret: refreshSecret}
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "requête invalide")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondErrorMsg(w, http.StatusBadRequest, "Tous les champs sont requis.")
		return
	}
	if req.Password != req.ConfirmPassword {
		respondErrorMsg(w, http.StatusBadRequest, "Les mots de passe ne correspondent pas.")
		return
	}
	if len(req.Password) < 6 {
		respondErrorMsg(w, http.StatusBadRequest, "Le mot de passe doit contenir au moins 6 caractères.")
		return
	}

	if _, err := h.users.ByEmail(r.Context(), req.Email); err == nil {
		respondError(w, services.ErrEmailTaken)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		respondError(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, string(hashed), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	h.respondTokens(w, r.Context(), http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "requête invalide")
		return
	}
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))

	user, err := h.users.ByEmail(r.Context(), c.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, services.ErrUserNotFound)
			return
		}
		respondError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)) != nil {
		respondError(w, services.ErrBadPassword)
		return
	}
	h.respondTokens(w, r.Context(), http.StatusOK, user)
}

// Refresh exchanges a valid refresh token for a new access token. The
// stored token must match so a rotation (new login) invalidates old ones.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondErrorMsg(w, http.StatusUnauthorized, "Token de rafraîchissement requis.")
		return
	}

	token, err := jwt.Parse(req.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.refreshSecret, nil
	})
	if err != nil || !token.Valid {
		respondErrorMsg(w, http.StatusForbidden, "Token invalide ou expiré.")
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		respondErrorMsg(w, http.StatusForbidden, "Token invalide ou expiré.")
		return
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		respondErrorMsg(w, http.StatusForbidden, "Token invalide ou expiré.")
		return
	}
	userID := int(sub)

	user, err := h.users.ByID(r.Context(), userID)
	if err != nil {
		respondErrorMsg(w, http.StatusForbidden, "Token invalide ou expiré.")
		return
	}
	if user.RefreshToken == nil || *user.RefreshToken != req.RefreshToken {
		respondErrorMsg(w, http.StatusForbidden, "Token invalide ou expiré.")
		return
	}

	access, err := h.issueToken(user.ID, h.jwtSecret, accessTokenTTL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"accessToken": access})
}

// ForgotPassword issues a one-hour reset token and mails a link.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "requête invalide")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		respondErrorMsg(w, http.StatusBadRequest, "L'email est requis.")
		return
	}

	user, err := h.users.ByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondErrorMsg(w, http.StatusBadRequest, "Aucun compte associé à cet email.")
			return
		}
		respondError(w, err)
		return
	}

	token := uuid.NewString()
	if err := h.users.SetResetToken(r.Context(), user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		respondError(w, err)
		return
	}
	if h.mailer != nil {
		if err := h.mailer.SendPasswordReset(user.Email, user.Name, token); err != nil {
			slog.Error("reset email failed", "error", err, "user_id", user.ID)
			respondErrorMsg(w, http.StatusInternalServerError, "Impossible d'envoyer l'email de réinitialisation.")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Un email de réinitialisation a été envoyé."})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Password == "" {
		respondErrorMsg(w, http.StatusBadRequest, "requête invalide")
		return
	}
	if len(req.Password) < 6 {
		respondErrorMsg(w, http.StatusBadRequest, "Le mot de passe doit contenir au moins 6 caractères.")
		return
	}

	user, err := h.users.ByResetToken(r.Context(), req.Token, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, services.ErrBadToken)
			return
		}
		respondError(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, string(hashed)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Mot de passe réinitialisé avec succès."})
}

func (h *AuthHandler) respondTokens(w http.ResponseWriter, ctx context.Context, status int, user models.User) {
	access, err := h.issueToken(user.ID, h.jwtSecret, accessTokenTTL)
	if err != nil {
		respondError(w, err)
		return
	}
	refresh, err := h.issueToken(user.ID, h.refreshSecret, refreshTokenTTL)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, status, map[string]any{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user,
	})
}

func (h *AuthHandler) issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
