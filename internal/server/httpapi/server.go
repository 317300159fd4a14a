// Package httpapi is the transport boundary: gorilla/mux routes over the
// authentication flows, translating domain outcomes to statuses and JSON
// bodies. No authentication policy lives here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mkalvans/authcore/internal/domain"
	"github.com/mkalvans/authcore/internal/logging"
	"github.com/mkalvans/authcore/internal/server/authflow"
)

// Server exposes the authentication flows over HTTP. The session token
// travels as an HTTP-only, SameSite=Lax cookie.
type Server struct {
	flows      *authflow.Orchestrator
	logger     logging.Logger
	cookieName string
	cookieTTL  time.Duration
}

func NewServer(flows *authflow.Orchestrator, logger logging.Logger, cookieName string, cookieTTL time.Duration) *Server {
	return &Server{flows: flows, logger: logger, cookieName: cookieName, cookieTTL: cookieTTL}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/signup", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogIn).Methods(http.MethodPost)
	r.HandleFunc("/verify-2fa", s.handleVerifyTwoFactor).Methods(http.MethodPost)
	r.HandleFunc("/verify-token", s.handleVerifyToken).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogOut).Methods(http.MethodPost)
	r.HandleFunc("/delete-account", s.handleDeleteAccount).Methods(http.MethodDelete)
	return r
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	LoginAttemptID string `json:"loginAttemptId,omitempty"`
}

type signUpRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RequiresTwoFA  bool   `json:"requires2FA"`
	RecaptchaToken string `json:"recaptchaToken"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.flows.SignUp(r.Context(), req.Email, req.Password, req.RequiresTwoFA, req.RecaptchaToken, remoteIP(r))
	if err != nil {
		s.writeError(r, w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, messageResponse{Message: "User created successfully!"})
}

type logInRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptchaToken"`
}

func (s *Server) handleLogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.flows.LogIn(r.Context(), req.Email, req.Password, req.RecaptchaToken, remoteIP(r))
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	switch res.Status {
	case authflow.StatusAuthenticated:
		s.setSessionCookie(w, res.Token)
		s.writeJSON(w, http.StatusOK, loginResponse{Status: "success"})
	case authflow.StatusPendingSecondFactor:
		s.writeJSON(w, http.StatusPartialContent, loginResponse{
			Status:         "2fa_required",
			Message:        "2FA required",
			LoginAttemptID: res.AttemptID,
		})
	case authflow.StatusChallengeRequired:
		s.writeJSON(w, http.StatusPreconditionRequired, loginResponse{Status: "recaptcha_required"})
	default:
		s.writeError(r, w, domain.Unexpected(errors.New("unhandled login status")))
	}
}

type verifyTwoFactorRequest struct {
	Email          string `json:"email"`
	LoginAttemptID string `json:"loginAttemptId"`
	Code           string `json:"2FACode"`
}

func (s *Server) handleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req verifyTwoFactorRequest
	if !s.decode(w, r, &req) {
		return
	}
	token, err := s.flows.VerifyTwoFactor(r.Context(), req.Email, req.LoginAttemptID, req.Code)
	if err != nil {
		s.writeError(r, w, err)
		return
	}
	s.setSessionCookie(w, token)
	s.writeJSON(w, http.StatusOK, loginResponse{Status: "success"})
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if !s.decode(w, r, &req) {
		return
	}
	if _, err := s.flows.Authenticate(r.Context(), req.Token); err != nil {
		s.writeError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLogOut(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(s.cookieName); err == nil {
		token = c.Value
	}
	if err := s.flows.LogOut(r.Context(), token); err != nil {
		s.writeError(r, w, err)
		return
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusOK)
}

type deleteAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.flows.DeleteAccount(r.Context(), req.Email, req.Password); err != nil {
		s.writeError(r, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Account deleted successfully!"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid input"})
		return false
	}
	return true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates a domain error into a status and a fixed message.
// Causes wrapped under ErrUnexpected are logged but never sent to the
// caller.
func (s *Server) writeError(r *http.Request, w http.ResponseWriter, err error) {
	var status int
	var msg string
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		status, msg = http.StatusConflict, "User already exists"
	case errors.Is(err, domain.ErrMissingToken):
		status, msg = http.StatusBadRequest, "Missing token"
	case errors.Is(err, domain.ErrValidation):
		status, msg = http.StatusBadRequest, "Invalid input"
	case errors.Is(err, domain.ErrIncorrectCredentials):
		status, msg = http.StatusUnauthorized, "Incorrect credentials"
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrTokenRevoked):
		status, msg = http.StatusUnauthorized, "Invalid token"
	default:
		status, msg = http.StatusInternalServerError, "Unexpected error"
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
