package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HSouheill/admarket_backend/workflow"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newProtectedServer(blacklist TokenBlacklist) *echo.Echo {
	e := echo.New()
	g := e.Group("", JWTMiddleware(testSecret, blacklist, zap.NewNop()))
	g.GET("/whoami", func(c echo.Context) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, actor.Role()+":"+actor.ID().Hex())
	})
	g.GET("/staff", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireRole(workflow.RoleEmployee, workflow.RoleAdmin))
	return e
}

func get(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddlewareResolvesActor(t *testing.T) {
	e := newProtectedServer(NewMemoryBlacklist())
	id := primitive.NewObjectID()

	token, err := GenerateJWT(testSecret, id.Hex(), "a@b.example", workflow.RoleAgency, time.Hour)
	require.NoError(t, err)

	rec := get(e, "/whoami", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "agency:"+id.Hex(), rec.Body.String())
}

func TestJWTMiddlewareRejects(t *testing.T) {
	e := newProtectedServer(NewMemoryBlacklist())
	id := primitive.NewObjectID().Hex()

	wrongKey, err := GenerateJWT("other-secret", id, "", workflow.RoleAgency, time.Hour)
	require.NoError(t, err)
	unknownRole, err := GenerateJWT(testSecret, id, "", "superuser", time.Hour)
	require.NoError(t, err)
	badID, err := GenerateJWT(testSecret, "42", "", workflow.RoleClient, time.Hour)
	require.NoError(t, err)
	expired := signedToken(t, JwtCustomClaims{
		UserID:         id,
		Role:           workflow.RoleClient,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
	})

	for name, token := range map[string]string{
		"missing":      "",
		"wrong key":    wrongKey,
		"unknown role": unknownRole,
		"bad id":       badID,
		"garbage":      "not.a.token",
		"expired":      expired,
	} {
		assert.Equal(t, http.StatusUnauthorized, get(e, "/whoami", token).Code, name)
	}
}

func signedToken(t *testing.T, claims JwtCustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestClaimsValid(t *testing.T) {
	claims := JwtCustomClaims{UserID: primitive.NewObjectID().Hex(), Role: workflow.RoleClient}
	claims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	assert.Error(t, claims.Valid())

	claims.ExpiresAt = time.Now().Add(time.Minute).Unix()
	claims.NotBefore = time.Now().Add(time.Minute).Unix()
	assert.Error(t, claims.Valid())

	claims.NotBefore = 0
	assert.NoError(t, claims.Valid())
}

func TestJWTMiddlewareRefusesRevokedToken(t *testing.T) {
	blacklist := NewMemoryBlacklist()
	e := newProtectedServer(blacklist)

	token, err := GenerateJWT(testSecret, primitive.NewObjectID().Hex(), "", workflow.RoleClient, time.Hour)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, get(e, "/whoami", token).Code)

	require.NoError(t, blacklist.Add(context.Background(), token, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, get(e, "/whoami", token).Code)
}

func TestJWTMiddlewareWithoutSecret(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, JWTMiddleware("", NewMemoryBlacklist(), zap.NewNop()))
	assert.Equal(t, http.StatusUnauthorized, get(e, "/x", "anything").Code)
}

func TestRequireRole(t *testing.T) {
	e := newProtectedServer(NewMemoryBlacklist())
	id := primitive.NewObjectID().Hex()

	for role, want := range map[string]int{
		workflow.RoleEmployee: http.StatusNoContent,
		workflow.RoleAdmin:    http.StatusNoContent,
		workflow.RoleAgency:   http.StatusForbidden,
		workflow.RoleClient:   http.StatusForbidden,
	} {
		token, err := GenerateJWT(testSecret, id, "", role, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, want, get(e, "/staff", token).Code, role)
	}
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	_, err := GenerateJWT("", "id", "", workflow.RoleClient, time.Hour)
	assert.Error(t, err)
}
