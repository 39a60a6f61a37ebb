package controllers

import (
	"net/http"
	"time"

	"github.com/HSouheill/admarket_backend/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthController handles session endpoints. Tokens are issued elsewhere.
type AuthController struct {
	blacklist middleware.TokenBlacklist
	logger    *zap.Logger
}

func NewAuthController(blacklist middleware.TokenBlacklist, logger *zap.Logger) *AuthController {
	return &AuthController{blacklist: blacklist, logger: logger}
}

// Logout revokes the presented token until it expires
func (ac *AuthController) Logout(c echo.Context) error {
	token, claims, found := middleware.TokenFromContext(c)
	if !found {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	var until time.Time
	if claims.ExpiresAt > 0 {
		until = time.Unix(claims.ExpiresAt, 0)
	}
	if err := ac.blacklist.Add(c.Request().Context(), token.Raw, until); err != nil {
		return err
	}

	ac.logger.Info("User logged out", zap.String("user_id", claims.UserID), zap.String("role", claims.Role))
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}
