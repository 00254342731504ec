package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterMiddlewareAppliesToAPIOnly(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r := NewRouter(engine)
	r.Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusTeapot) })
	r.Register(NewDomainGroup("test", "/test").GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) }))
	r.Setup()

	assert.Equal(t, http.StatusTeapot, serve(engine, http.MethodGet, "/api/v1/test/x").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("accounts", "/accounts")
		assert.Equal(t, "accounts", g.Name())
		assert.Equal(t, "/accounts", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("test", "/test")
		g.GET("/a", ok).POST("", ok).PATCH("/a/:id", ok).DELETE("/a/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/v1/test/a"},
			{http.MethodPost, "/api/v1/test"},
			{http.MethodPatch, "/api/v1/test/a/1"},
			{http.MethodDelete, "/api/v1/test/a/1"},
		}
		for _, tt := range tests {
			assert.Equal(t, http.StatusOK, serve(engine, tt.method, tt.path).Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("group middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		var seen []string
		g := NewDomainGroup("outer", "/outer").Use(func(c *gin.Context) {
			seen = append(seen, c.FullPath())
			c.Next()
		})
		g.Group("inner", "/inner").GET("/leaf", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/outer/inner/leaf").Code)
		assert.Equal(t, []string{"/api/v1/outer/inner/leaf"}, seen)
	})
}
