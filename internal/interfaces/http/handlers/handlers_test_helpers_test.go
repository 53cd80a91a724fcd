package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"trustlend.backend/internal/interfaces/http/middleware"
)

const (
	testBorrower = "0x1111111111111111111111111111111111111111"
	testOperator = "0x2222222222222222222222222222222222222222"
)

// asCaller injects an authenticated caller, standing in for the JWT
// middleware in handler tests.
func asCaller(address, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CallerAddressKey, address)
		c.Set(middleware.CallerRoleKey, role)
		c.Next()
	}
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
