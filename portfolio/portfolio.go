package portfolio

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"devfolio/auth"
	"devfolio/models"
	"devfolio/store"
	"devfolio/validation"
)

type PortfolioModule struct {
	store *store.Store
}

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

func NewPortfolioModule(st *store.Store) *PortfolioModule {
	return &PortfolioModule{store: st}
}

func (p *PortfolioModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/portfolio/:id", p.get)
	router.POST("/portfolio", p.upsert)
}

// portfolioResponse is the stored content plus the bio rendered to HTML,
// so clients don't need their own markdown pipeline.
type portfolioResponse struct {
	models.PortfolioData
	DetailedBioHTML string `json:"detailedBioHtml,omitempty"`
}

func (p *PortfolioModule) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Portfolio id must be an integer"})
		return
	}

	portfolio, err := p.store.GetPortfolio(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
			return
		}
		log.Printf("get portfolio %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, portfolioResponse{
		PortfolioData:   portfolio.Data,
		DetailedBioHTML: renderMarkdown(portfolio.Data.DetailedBio),
	})
}

// upsert collapses create and update into one operation keyed by the acting
// user: the session user when logged in, otherwise the auto-provisioned
// default owner. The data blob is replaced wholesale, so reordering projects
// is just a resubmission with new order values.
func (p *PortfolioModule) upsert(c *gin.Context) {
	var data models.PortfolioData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": validation.FieldErrors(err),
		})
		return
	}

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		user, err := auth.EnsureDefaultUser(p.store)
		if err != nil {
			log.Printf("provision default user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		userID = user.ID
	}

	portfolio, created, err := p.store.UpsertPortfolio(userID, data)
	if err != nil {
		log.Printf("upsert portfolio for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save portfolio"})
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"id": portfolio.ID, "message": "created"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": portfolio.ID, "message": "updated"})
}

func renderMarkdown(content string) string {
	if content == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// on error, return the original content so the page still renders
		return content
	}
	return buf.String()
}
