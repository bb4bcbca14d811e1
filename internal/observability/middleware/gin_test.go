package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/flock-watch/internal/observability/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(Gin(GinConfig{SkipPaths: []string{"/health"}, Module: "test", TracerName: "test"}))
	r.Use(PanicRecoveryGin())

	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, logging.RequestIDFromContext(c.Request.Context()))
	})
	r.GET("/panic", func(*gin.Context) {
		panic("boom")
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestGin_RequestID(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		header string
	}{
		{name: "propagates incoming id", header: "req-42"},
		{name: "generates id when absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			if tt.header != "" {
				req.Header.Set(logging.RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(logging.RequestIDHeader)
			if got == "" {
				t.Fatal("response has no request id header")
			}
			if tt.header != "" && got != tt.header {
				t.Errorf("request id = %q, want %q", got, tt.header)
			}
			if w.Body.String() != got {
				t.Errorf("context request id = %q, header %q", w.Body.String(), got)
			}
		})
	}
}

func TestGin_SkipPaths(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Header().Get(logging.RequestIDHeader) != "" {
		t.Error("skipped path got a request id")
	}
}

func TestPanicRecoveryGin(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
