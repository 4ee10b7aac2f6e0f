package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	frontendURL string
}

// NewAuthHandler returns the registration and login handlers. When
// frontendURL is set, a completed OAuth login redirects there with the token
// instead of answering with JSON.
func NewAuthHandler(authService ports.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{authService: authService, frontendURL: frontendURL}
}

// Register creates a new author account.
//
// @Summary      Register a new author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Author details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /authors/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	author, token, err := h.authService.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}

	metrics.AuthorsRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, registerResponse{ID: author.ID, AccessToken: token})
}

// Login exchanges email and password for an access token.
//
// @Summary      Login
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /authors/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("invalid payload")
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := "failure"
		if errors.Is(err, domain.ErrTooManyAttempts) {
			result = "throttled"
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", result).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
}

// GoogleLogin starts the Google OAuth flow.
//
// @Summary      Start Google login
// @Tags         authors
// @Success      307
// @Failure      404   {object}  map[string]string
// @Router       /authors/googleLogin [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	target, err := h.authService.OAuthLoginURL(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

// GoogleRedirect completes the Google OAuth flow.
//
// @Summary      Google login callback
// @Tags         authors
// @Produce      json
// @Param        state  query     string  true  "State issued by googleLogin"
// @Param        code   query     string  true  "Authorization code"
// @Success      200    {object}  tokenResponse
// @Success      307
// @Failure      401    {object}  map[string]string
// @Router       /authors/googleRedirect [get]
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	token, _, err := h.authService.OAuthCallback(c.Request().Context(), c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("google", "failure").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("google", "success").Inc()

	if h.frontendURL == "" {
		return c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
	}
	target, err := url.Parse(h.frontendURL)
	if err != nil {
		return err
	}
	q := target.Query()
	q.Set("accessToken", token)
	target.RawQuery = q.Encode()
	return c.Redirect(http.StatusTemporaryRedirect, target.String())
}
