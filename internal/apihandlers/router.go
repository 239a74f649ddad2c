package apihandlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with templates, routes and /metrics.
func NewRouter(h *APIHandler, releaseMode bool) (*gin.Engine, error) {
	if releaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes logger and recovery middleware

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	h.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router, nil
}
