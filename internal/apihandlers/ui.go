package apihandlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"shopmate/internal/models"
	"shopmate/internal/services"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const indexTemplate = "index.html.tmpl"

const emptyQueryWarning = "Please describe what you want to buy."

type indexPage struct {
	Query   string
	Result  *models.SuggestionResult
	Warning string
	Error   string
}

func loadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.tmpl")
}

// IndexHandler renders the search form and, when a query is present, its
// suggestions. GET reads ?q=, POST reads the form field q.
func (h *APIHandler) IndexHandler(c *gin.Context) {
	query := c.Query("q")
	if c.Request.Method == http.MethodPost {
		query = c.PostForm("q")
	}
	page := indexPage{Query: strings.TrimSpace(query)}

	if page.Query == "" {
		if c.Request.Method == http.MethodPost {
			page.Warning = emptyQueryWarning
		}
		c.HTML(http.StatusOK, indexTemplate, page)
		return
	}

	result, err := h.Suggester.SuggestWithOptions(c.Request.Context(), page.Query, services.SuggestOptions{})
	if err != nil {
		if errors.Is(err, models.ErrEmptyQuery) {
			page.Warning = emptyQueryWarning
			c.HTML(http.StatusOK, indexTemplate, page)
			return
		}
		log.WithError(err).Error("Failed to build suggestions")
		page.Error = "Could not load the shopping data: " + err.Error()
		c.HTML(http.StatusInternalServerError, indexTemplate, page)
		return
	}
	page.Result = result
	c.HTML(http.StatusOK, indexTemplate, page)
}
