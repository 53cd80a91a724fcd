package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trustlend.backend/pkg/jwt"
)

const testAddress = "0x1111111111111111111111111111111111111111"

func authTestRouter(svc *jwt.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(svc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		address, _ := GetCallerAddress(c)
		role, _ := GetCallerRole(c)
		c.JSON(http.StatusOK, gin.H{"address": address, "role": role})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Minute, time.Minute)
	pair, err := svc.GenerateTokenPair(testAddress, jwt.RoleBorrower)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+pair.AccessToken)
	authTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testAddress)
	assert.Contains(t, w.Body.String(), jwt.RoleBorrower)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Minute, time.Minute)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", BearerPrefix + "garbage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set(AuthorizationHeader, tc.header)
			}
			authTestRouter(svc).ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	issuer := jwt.NewJWTService("secret", -time.Second, -time.Second)
	pair, err := issuer.GenerateTokenPair(testAddress, jwt.RoleBorrower)
	require.NoError(t, err)

	svc := jwt.NewJWTService("secret", time.Minute, time.Minute)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+pair.AccessToken)
	authTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireRole(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Minute, time.Minute)

	adminPair, err := svc.GenerateTokenPair(testAddress, jwt.RoleAdmin)
	require.NoError(t, err)
	borrowerPair, err := svc.GenerateTokenPair(testAddress, jwt.RoleBorrower)
	require.NoError(t, err)

	router := authTestRouter(svc, RequireRole(jwt.RoleAdmin, jwt.RoleOperator))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+adminPair.AccessToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+borrowerPair.AccessToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_NoAuthContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/role-only", RequireRole(jwt.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/role-only", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
