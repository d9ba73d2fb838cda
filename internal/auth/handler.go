package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MdAyanBadar/mini-auth-project/internal/httputil"
	"github.com/MdAyanBadar/mini-auth-project/internal/logging"
	"github.com/MdAyanBadar/mini-auth-project/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleRequest represents the Google authentication request body
type GoogleRequest struct {
	Token string `json:"token"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse represents a user in API responses.
// The password hash never appears here.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account with email, password and name and receive a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration credentials"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} ErrorResponse "Invalid request or validation error"
// @Failure      409 {object} ErrorResponse "Email already exists"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, token, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicate):
			logger.Warn("registration failed: email already exists")
			respondError(w, "User with this email already exists.", httputil.CodeEmailAlreadyExists, http.StatusConflict)
		case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrNameRequired):
			logger.Warn("registration failed: validation error", "error", err.Error())
			respondError(w, "Email, password, and name are required.", httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			logger.Warn("registration failed: validation error", "error", err.Error())
			respondError(w, "Password must be at least 6 characters long.", httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			respondError(w, "Internal server error during registration.", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	respondJSON(w, AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    toUserResponse(newUser),
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} ErrorResponse "Invalid request body"
// @Failure      401 {object} ErrorResponse "Invalid credentials"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	existing, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrPasswordRequired):
			logger.Warn("login failed: validation error", "error", err.Error())
			respondError(w, "Email and password are required.", httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("login failed: invalid credentials")
			respondError(w, "Invalid email or password.", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrGoogleOnlyAccount):
			logger.Warn("login failed: google-only account")
			respondError(w, "This account uses Google Sign-In. Please login with Google.", httputil.CodeGoogleAccount, http.StatusUnauthorized)
		default:
			logger.Error("login failed: internal error", "error", err.Error())
			respondError(w, "Internal server error during login.", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user logged in successfully", "user_id", existing.ID)

	respondJSON(w, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    toUserResponse(existing),
	}, http.StatusOK)
}

// GoogleAuth handles authentication with a Google-issued token
// @Summary      Google authentication
// @Description  Authenticate with a Google ID token or access token and receive a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body GoogleRequest true "Google token"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} ErrorResponse "Missing token"
// @Failure      401 {object} ErrorResponse "Invalid Google token"
// @Failure      409 {object} ErrorResponse "Account linked to a different Google identity"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /auth/google [post]
func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req GoogleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid google auth request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.Token == "" {
		logger.Warn("google auth failed: token missing")
		respondError(w, "Google token is required.", httputil.CodeGoogleTokenRequired, http.StatusBadRequest)
		return
	}

	existing, token, err := h.service.GoogleAuth(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidGoogleToken):
			logger.Warn("google auth failed: invalid token")
			respondError(w, "Invalid Google token.", httputil.CodeInvalidGoogleToken, http.StatusUnauthorized)
		case errors.Is(err, user.ErrGoogleIDTaken):
			logger.Warn("google auth failed: account linked to a different google identity")
			respondError(w, "Account is already linked to a different Google identity.", httputil.CodeGoogleIdentityInUse, http.StatusConflict)
		default:
			logger.Error("google auth failed: internal error", "error", err.Error())
			respondError(w, "Internal server error during Google authentication.", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("google authentication successful", "user_id", existing.ID)

	respondJSON(w, AuthResponse{
		Message: "Google authentication successful",
		Token:   token,
		User:    toUserResponse(existing),
	}, http.StatusOK)
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	httputil.RespondJSON(w, data, statusCode)
}

// respondError sends an error response with a machine-readable code
func respondError(w http.ResponseWriter, message string, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}
