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

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	stores := NewDomainGroup("stores", "/stores").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		POST("/:id/close", func(c *gin.Context) { c.String(http.StatusOK, "closed "+c.Param("id")) })
	orders := NewDomainGroup("orders", "/orders").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "orders") })

	NewRouter(engine).Register(stores, orders).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/stores")
	assert.Equal(t, "list", w.Body.String())
	w = serve(engine, http.MethodPost, "/api/v1/stores/NYC1/close")
	assert.Equal(t, "closed NYC1", w.Body.String())
	w = serve(engine, http.MethodGet, "/api/v1/orders")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(engine, http.MethodGet, "/stores")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UseAppliesToAPIOnly(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	NewRouter(engine).
		Use(deny).
		Register(NewDomainGroup("stores", "/stores").GET("", func(c *gin.Context) { c.Status(http.StatusOK) })).
		Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/stores").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
}

func TestDomainGroup(t *testing.T) {
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }

	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("payroll", "/payroll")
		assert.Equal(t, "payroll", g.Name())
		assert.Equal(t, "/payroll", g.Prefix())
	})

	t.Run("every method", func(t *testing.T) {
		engine := gin.New()
		NewDomainGroup("shifts", "/shifts").
			GET("/:id", ok).
			POST("/:id", ok).
			PUT("/:id", ok).
			PATCH("/:id", ok).
			DELETE("/:id", ok).
			RegisterRoutes(engine.Group("/api/v1"))

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			w := serve(engine, method, "/api/v1/shifts/1")
			assert.Equal(t, http.StatusOK, w.Code, method)
			assert.Equal(t, method, w.Body.String())
		}
	})

	t.Run("middleware runs before the handler", func(t *testing.T) {
		engine := gin.New()
		NewDomainGroup("reports", "/reports").
			Use(func(c *gin.Context) {
				c.Header("X-Scope", "reports")
				c.Next()
			}).
			GET("/:type", ok).
			RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/reports/sales")
		assert.Equal(t, "reports", w.Header().Get("X-Scope"))
	})

	t.Run("subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("catalog", "/catalog")
		g.Group("products", "/products").GET("", func(c *gin.Context) { c.String(http.StatusOK, "products") })
		g.Group("categories", "/categories").GET("", func(c *gin.Context) { c.String(http.StatusOK, "categories") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "products", serve(engine, http.MethodGet, "/api/v1/catalog/products").Body.String())
		assert.Equal(t, "categories", serve(engine, http.MethodGet, "/api/v1/catalog/categories").Body.String())
	})
}
