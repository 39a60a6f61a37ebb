// middleware/jwt_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/workflow"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const actorContextKey = "actor"

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Valid implements the Claims interface for Echo's JWT middleware
func (c JwtCustomClaims) Valid() error {
	now := time.Now().Unix()
	if c.ExpiresAt > 0 && now > c.ExpiresAt {
		return errors.New("token is expired")
	}
	if c.NotBefore > 0 && now < c.NotBefore {
		return errors.New("token used before valid")
	}
	return nil
}

// JWTMiddleware verifies the bearer token and resolves it to a workflow
// actor. Revoked tokens are refused.
func JWTMiddleware(secret string, blacklist TokenBlacklist, logger *zap.Logger) echo.MiddlewareFunc {
	if secret == "" {
		logger.Warn("JWT secret is not set, authenticated routes are disabled")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "JWT configuration error")
			}
		}
	}

	verify := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: []byte(secret),
		Claims:     &JwtCustomClaims{},
		ErrorHandler: func(err error) error {
			logger.Debug("JWT validation failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusUnauthorized, "Please provide valid credentials")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please provide valid credentials")
			}

			revoked, err := blacklist.Contains(c.Request().Context(), token.Raw)
			if err != nil {
				logger.Error("Token blacklist lookup failed", zap.Error(err))
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Unable to verify token")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token has been invalidated")
			}

			claims := token.Claims.(*JwtCustomClaims)
			actor, err := workflow.NewActor(claims.UserID, claims.Role)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token does not carry a known identity")
			}
			c.Set(actorContextKey, actor)
			return next(c)
		})
	}
}

// ActorFromContext returns the identity resolved by JWTMiddleware
func ActorFromContext(c echo.Context) (workflow.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(workflow.Actor)
	return actor, ok
}

// TokenFromContext returns the verified token and its claims
func TokenFromContext(c echo.Context) (*jwt.Token, *JwtCustomClaims, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, nil, false
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	return token, claims, ok
}

// RequireRole lets only the listed roles through
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication required",
				})
			}
			for _, role := range roles {
				if actor.Role() == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for role " + actor.Role() + ", requires " + strings.Join(roles, " or "),
			})
		}
	}
}

// GenerateJWT signs a token for the given identity. A zero ttl issues a
// token without expiry.
func GenerateJWT(secret, userID, email, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret is required")
	}
	now := time.Now()
	claims := &JwtCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt: now.Unix(),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
