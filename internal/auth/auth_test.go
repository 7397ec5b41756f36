package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAPIKeyMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(APIKeyMiddleware("secret"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong", "nope", "", http.StatusForbidden},
		{"header", "secret", "", http.StatusNoContent},
		{"query", "", "?api_key=secret", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAPIKeyDisabled(t *testing.T) {
	r := gin.New()
	r.Use(APIKeyMiddleware(""))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOperatorMiddleware(t *testing.T) {
	saved := "Saved Name"
	var savedErr error
	r := gin.New()
	r.Use(OperatorMiddleware(func(context.Context) (string, error) { return saved, savedErr }))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, OperatorName(c)) })

	get := func(header string) string {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if header != "" {
			req.Header.Set("X-Operator-Name", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "Field Medic", get(" Field Medic "))
	assert.Equal(t, "Saved Name", get(""))

	saved, savedErr = "", errors.New("redis down")
	assert.Equal(t, "", get(""))
}
