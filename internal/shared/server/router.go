package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careerlens-backend/internal/companies"
	"careerlens-backend/internal/resumes"
	"careerlens-backend/internal/shared/config"
	"careerlens-backend/internal/shared/metrics"
	"careerlens-backend/internal/shared/server/middleware"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Config    config.Config
	Resumes   *resumes.Handler
	Companies *companies.Handler
}

// NewRouter builds the gin engine with the shared middleware chain and all
// feature routes under /api/v1.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Auth())
	deps.Resumes.Register(api.Group("/resumes"))
	deps.Companies.Register(api.Group("/companies"))

	return r
}
