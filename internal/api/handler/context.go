package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/api/middleware"
	"github.com/carehub/healthcare-api/internal/core/domain"
)

// ctxAccount returns the account injected by the Auth middleware. A missing
// account means the route was mounted without Auth; reject with 401.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, ok := c.Get(middleware.AccountKey).(*domain.Account)
	if !ok || account == nil {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}

// ctxClaims returns the verified access token claims.
func ctxClaims(c echo.Context) (*domain.TokenClaims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(*domain.TokenClaims)
	if !ok || claims == nil {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
