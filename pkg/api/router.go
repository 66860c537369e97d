package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/neatc0der/bacnet/pkg/api/handlers"
	"github.com/neatc0der/bacnet/pkg/bacnet/schema"
	"github.com/neatc0der/bacnet/pkg/engine"
	"github.com/neatc0der/bacnet/pkg/view"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	sync      *engine.Engine
	renderer  *view.Renderer
	validator *schema.Validator
	registry  *prometheus.Registry
}

// NewRouter creates the console router: the rendered browse pages, the
// form actions driving the poller, and the JSON API mirroring them.
func NewRouter(sync *engine.Engine, renderer *view.Renderer, validator *schema.Validator, registry *prometheus.Registry) *Router {
	gin.SetMode(gin.ReleaseMode)

	e := gin.New()
	SetupMiddleware(e)

	router := &Router{
		engine:    e,
		sync:      sync,
		renderer:  renderer,
		validator: validator,
		registry:  registry,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	if r.registry != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	}

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.sync)
	r.engine.GET("/health", healthHandler.Health)

	// Browse pages and form actions
	pagesHandler := handlers.NewPagesHandler(r.sync, r.renderer, r.validator)
	r.engine.GET("/", pagesHandler.Browse)
	r.engine.POST("/devices/write", pagesHandler.Write)
	r.engine.POST("/devices/update", pagesHandler.Update)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		devicesHandler := handlers.NewDevicesHandler(r.sync)
		devices := v1.Group("/devices")
		{
			devices.GET("", devicesHandler.ListDevices)
			devices.GET("/:id", devicesHandler.GetDevice)
			devices.GET("/:id/objects/:object", devicesHandler.GetObject)
		}

		opsHandler := handlers.NewOperationsHandler(r.sync, r.validator)
		v1.POST("/read", opsHandler.Read)
		v1.POST("/write", opsHandler.Write)
		v1.GET("/operations", opsHandler.ListOperations)
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Handler exposes the underlying handler for tests.
func (r *Router) Handler() http.Handler {
	return r.engine
}
