package apihandlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopmate/internal/app"
	"shopmate/internal/costtracker"
	"shopmate/internal/models"
	"shopmate/internal/services"
	"shopmate/pkg/reasons"
)

// Suggester is the part of services.SuggestionService the handlers use.
type Suggester interface {
	SuggestWithOptions(ctx context.Context, query string, opts services.SuggestOptions) (*models.SuggestionResult, error)
	Detect(ctx context.Context, query string) (models.Detection, bool, error)
	Categories(ctx context.Context) ([]services.CategorySummary, error)
	Sites(ctx context.Context, category string) ([]models.Site, error)
}

type APIHandler struct {
	Suggester Suggester
	Costs     costtracker.CostTracker
	Model     services.CompletionService
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{
		Suggester: a.SuggestionService,
		Costs:     a.CostTracker,
		Model:     a.CompletionService,
	}
}

// RegisterRoutes mounts the HTML UI, the JSON API and the health check.
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.IndexHandler)
	router.POST("/", h.IndexHandler)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/suggest", h.SuggestHandler)
		v1.GET("/detect", h.DetectHandler)

		categoryGroup := v1.Group("/categories")
		{
			categoryGroup.GET("", h.ListCategoriesHandler)
			categoryGroup.GET("/:name/sites", h.ListSitesHandler)
		}

		v1.GET("/usage", h.UsageHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

type suggestRequest struct {
	Query    string `json:"query"`
	NoModel  bool   `json:"no_model"`
	Strategy string `json:"strategy"`
}

func (h *APIHandler) SuggestHandler(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		BadRequest(c, "query is required")
		return
	}

	opts := services.SuggestOptions{NoModel: req.NoModel}
	if req.Strategy != "" {
		strategy, ok := reasons.ParseStrategy(req.Strategy)
		if !ok {
			BadRequest(c, "strategy must be 'batch' or 'per_site'")
			return
		}
		opts.Strategy = strategy
	}

	result, err := h.Suggester.SuggestWithOptions(c.Request.Context(), req.Query, opts)
	if err != nil {
		respondServiceError(c, "SuggestHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *APIHandler) DetectHandler(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		BadRequest(c, "query parameter 'q' is required")
		return
	}

	detection, found, err := h.Suggester.Detect(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, "DetectHandler", err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"found": false, "message": services.MessageNoCategory}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"found": true, "detection": detection}})
}

func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.Suggester.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, "ListCategoriesHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *APIHandler) ListSitesHandler(c *gin.Context) {
	sites, err := h.Suggester.Sites(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondServiceError(c, "ListSitesHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sites})
}

func (h *APIHandler) UsageHandler(c *gin.Context) {
	ctx := c.Request.Context()
	total, err := h.Costs.TotalCost(ctx)
	if err != nil {
		Internal(c, "UsageHandler: failed to read total cost: "+err.Error())
		return
	}
	summary, err := h.Costs.Summary(ctx)
	if err != nil {
		Internal(c, "UsageHandler: failed to summarize usage: "+err.Error())
		return
	}
	if summary == nil {
		summary = []costtracker.UsageSummary{}
	}

	resp := gin.H{"total_cost_usd": total, "usage": summary}
	if h.Model != nil {
		resp["provider"] = h.Model.Name()
		resp["model"] = h.Model.ModelName()
		resp["status"] = h.Model.Status().String()
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
