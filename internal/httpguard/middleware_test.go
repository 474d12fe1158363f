package httpguard

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireUnsealed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("SealedRejected", func(t *testing.T) {
		v := &fakeVault{unsealed: false}
		router := gin.New()
		router.Use(RequireUnsealed(v, logger))
		router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusLocked, w.Code)
	})

	t.Run("UnsealedAllowed", func(t *testing.T) {
		v := &fakeVault{unsealed: true}
		router := gin.New()
		router.Use(RequireUnsealed(v, logger))
		router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
