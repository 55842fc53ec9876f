package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(GinMiddleware())
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/probe", http.MethodGet, "418"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/probe", http.MethodGet, "418"))
	assert.Equal(t, before+1, after)
}

func TestGinMiddleware_UnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(GinMiddleware())

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("unknown", http.MethodGet, "404"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("unknown", http.MethodGet, "404"))
	assert.Equal(t, before+1, after)
}

func TestGinMiddleware_SkipsScrapes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(GinMiddleware())
	engine.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/metrics", http.MethodGet, "200"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/metrics", http.MethodGet, "200"))
	assert.Equal(t, before, after)
}
