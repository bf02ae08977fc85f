package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/middleware"
	"github.com/Yaswanth0403/BookHaven/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Age       int    `json:"age" validate:"omitempty,gte=1,lte=150"`
	Gender    string `json:"gender" validate:"omitempty,max=32"`
	Address   string `json:"address" validate:"omitempty,max=512"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest carries the refresh token to revoke. Without one every
// token of the caller is revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Age       int    `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Address   string `json:"address,omitempty"`
	Role      string `json:"role"`
}

func newUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Age:       user.Age,
		Gender:    user.Gender,
		Address:   user.Address,
		Role:      user.Role,
	}
}

// CookieConfig describes the session cookie set on login
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	cookie      CookieConfig
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, cookie CookieConfig, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookie:      cookie,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router, guards Guards) {
	limited := guards.rateLimited(r)
	limited.Post("/register", h.Register)
	limited.Post("/login", h.Login)
	limited.Post("/adminlogin", h.AdminLogin)
	r.Post("/api/token/refresh", h.RefreshToken)

	r.Group(func(r chi.Router) {
		r.Use(guards.Auth)
		r.Post("/logout", h.Logout)
		r.Get("/api/user", h.GetProfile)

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Get("/api/admin", h.GetProfile)
			r.Get("/users", h.ListUsers)
		})
	})
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Age:       req.Age,
		Gender:    req.Gender,
		Address:   req.Address,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to register user")
		return
	}

	h.logger.Info("User registered successfully", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, newUserProfile(user))
}

// Login handles user authentication
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.userService.Login)
}

// AdminLogin authenticates an administrator. Non-admin accounts get the same
// 401 as a wrong password.
func (h *UserHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.userService.AdminLogin)
}

type loginFunc func(ctx context.Context, email, password string) (*service.LoginResult, error)

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request, authenticate loginFunc) {
	var req LoginRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	result, err := authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.String("path", r.URL.Path), zap.Error(err))
		respondWithServiceError(w, h.logger, err, "failed to login")
		return
	}

	h.setSessionCookie(w, result.SessionID)

	h.logger.Info("User logged in successfully",
		zap.String("user_id", result.User.ID.String()),
		zap.String("role", result.User.Role),
	)
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         newUserProfile(result.User),
	})
}

// Logout handles user logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// the body is optional
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug("Logout decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, _ := middleware.GetSessionID(r.Context())
	if err := h.userService.Logout(r.Context(), userID, req.RefreshToken, sessionID); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to logout")
		return
	}

	h.clearSessionCookie(w)

	h.logger.Info("User logged out successfully", zap.String("user_id", userID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// RefreshToken handles token refresh
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	newAccessToken, err := h.userService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Token refresh failed", zap.Error(err))
		respondWithServiceError(w, h.logger, err, "failed to refresh token")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: newAccessToken})
}

// GetProfile returns the caller's profile as currently stored
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get user profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newUserProfile(user))
}

// ListUsers returns every account
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list users")
		return
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, newUserProfile(user))
	}

	middleware.RespondWithJSON(w, http.StatusOK, profiles)
}

func (h *UserHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	if sessionID == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *UserHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
