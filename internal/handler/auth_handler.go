package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"inkwell/internal/errors"
	"inkwell/internal/oauth"
	"inkwell/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	google      *oauth.GoogleClient
	clientURL   string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, google *oauth.GoogleClient, clientURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		google:      google,
		clientURL:   clientURL,
	}
}

// SignupRequest represents a user signup request.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token"`
	User    interface{} `json:"user"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if err == service.ErrUserAlreadyExists {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_ALREADY_EXISTS",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to register user",
			Code:  "SIGNUP_FAILED",
		})
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "user registered successfully",
		Token:   token,
		User:    user.Public(),
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_CREDENTIALS",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to login",
			Code:  "LOGIN_FAILED",
		})
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "login successful",
		Token:   token,
		User:    user.Public(),
	})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user.Public(),
	})
}

// GoogleLogin godoc
// @Summary Start the Google OAuth handshake
// @Tags auth
// @Success 302
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	if !h.google.Enabled() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, errors.ErrorResponse{
			Error: "google login is not configured",
			Code:  "OAUTH_DISABLED",
		})
	}

	authURL, err := h.google.AuthURL(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to start google login",
			Code:  "OAUTH_START_FAILED",
		})
	}
	return c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback terminates the handshake: it validates the state, resolves
// the Google profile to a local user and hands the minted token to the client
// through a redirect.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	profile, err := h.google.Exchange(ctx, c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		log.Printf("oauth: callback failed: %v", err)
		return c.Redirect(http.StatusFound, h.clientURL+"/login?error=google-auth-failed")
	}

	token, user, err := h.authService.ExternalLogin(ctx, service.ExternalProfile{
		ProviderID: profile.ID,
		Name:       profile.Name,
		Email:      profile.Email,
		Picture:    profile.Picture,
	})
	if err != nil {
		log.Printf("oauth: external login failed: %v", err)
		return c.Redirect(http.StatusFound, h.clientURL+"/login?error=google-auth-failed")
	}

	userJSON, err := json.Marshal(user.Public())
	if err != nil {
		return c.Redirect(http.StatusFound, h.clientURL+"/login?error=token-generation-failed")
	}

	redirect := fmt.Sprintf("%s/oauth-success?token=%s&user=%s",
		h.clientURL, url.QueryEscape(token), url.QueryEscape(string(userJSON)))
	return c.Redirect(http.StatusFound, redirect)
}
