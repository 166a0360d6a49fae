package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/api/metrics"
	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new patient or doctor account with its empty profile.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(account.Role)).Inc()
	return c.JSON(http.StatusCreated, account)
}

// Login authenticates with email and password and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pair, account, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	countPair()
	return c.JSON(http.StatusOK, toTokenResponse(pair, account))
}

// Refresh exchanges a refresh token for a new pair. Each refresh token works once.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	countPair()
	return c.JSON(http.StatusOK, toTokenResponse(pair, nil))
}

// Logout revokes the current access token and, when supplied, a refresh token.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      logoutRequest  false  "Refresh token to revoke"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req logoutRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	if err := h.authService.Logout(c.Request().Context(), claims, req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// WhoAmI returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  errorResponse
// @Router       /auth/whoami [get]
func (h *AuthHandler) WhoAmI(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Profile returns the patient or doctor profile linked to the caller. Admins
// have none.
//
// @Summary      Current account's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PatientProfile
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/me/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.GetProfileFor(c.Request().Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrInactiveAccount):
		return "inactive"
	default:
		return "error"
	}
}

func countPair() {
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.TokenAccess)).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.TokenRefresh)).Inc()
}
