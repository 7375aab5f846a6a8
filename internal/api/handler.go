// Package api implements the HTTP handlers presentation clients use to drive
// a search session.
//
// Routes:
//
//	GET    /health                          → liveness
//	GET    /api/v1/options                  → filter choices
//	POST   /api/v1/sessions                 → new session, initial page loaded
//	GET    /api/v1/sessions/:id             → render view
//	PATCH  /api/v1/sessions/:id/criteria    → update some criteria, render view
//	POST   /api/v1/sessions/:id/visible     → sentinel entered viewport
//	POST   /api/v1/sessions/:id/reset       → clear fetch error
//	DELETE /api/v1/sessions/:id             → end session
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobmate/search-service/internal/config"
	"jobmate/search-service/internal/input"
	"jobmate/search-service/internal/session"
)

// Handler holds shared dependencies.
type Handler struct {
	sessions *session.Registry
	options  *config.FilterOptions
	version  string
}

// NewHandler returns a configured Handler.
func NewHandler(sessions *session.Registry, options *config.FilterOptions, version string) *Handler {
	return &Handler{sessions: sessions, options: options, version: version}
}

// RegisterRoutes mounts every session route on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/options", h.Options)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.CreateSession)
			sessions.GET("/:id", h.GetSession)
			sessions.PATCH("/:id/criteria", h.UpdateCriteria)
			sessions.POST("/:id/visible", h.Visible)
			sessions.POST("/:id/reset", h.Reset)
			sessions.DELETE("/:id", h.DeleteSession)
		}
	}
}

// ─── Request types ───────────────────────────────────────────────────────────

// criteriaRequest carries raw input values. Absent fields are left as they
// are; present ones replace the matching criterion.
type criteriaRequest struct {
	CompanyName *string   `json:"companyName"`
	Roles       *[]string `json:"roles"`
	Locations   *[]string `json:"locations"`
	Experience  *string   `json:"experience"`
	MinBasePay  *string   `json:"minBasePay"`
}

type visibleRequest struct {
	SentinelID string `json:"sentinelId" binding:"required"`
}

// ─── Handlers ────────────────────────────────────────────────────────────────

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "search-service",
		"version":  h.version,
		"sessions": h.sessions.Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// Options handles GET /api/v1/options.
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.options)
}

// CreateSession handles POST /api/v1/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.sessions.Create(detached(c))
	c.JSON(http.StatusCreated, s.Render())
}

// GetSession handles GET /api/v1/sessions/:id.
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Render())
}

// UpdateCriteria handles PATCH /api/v1/sessions/:id/criteria.
func (h *Handler) UpdateCriteria(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req criteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	f := s.Filters()
	if req.CompanyName != nil {
		f.SetCompanyName(input.CompanyName(*req.CompanyName))
	}
	if req.Roles != nil {
		f.SetRoles(input.Selection(*req.Roles))
	}
	if req.Locations != nil {
		f.SetLocations(input.Selection(*req.Locations))
	}
	if req.Experience != nil {
		f.SetExperience(input.ParseExperience(*req.Experience))
	}
	if req.MinBasePay != nil {
		f.SetMinBasePay(input.ParseMinBasePay(*req.MinBasePay))
	}

	c.JSON(http.StatusOK, s.Render())
}

// Visible handles POST /api/v1/sessions/:id/visible. A fetch failure is not
// an HTTP error: it is reported through the view's state.
func (h *Handler) Visible(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req visibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	triggered, _ := s.OnBecameVisible(detached(c), req.SentinelID)
	c.JSON(http.StatusOK, gin.H{"triggered": triggered, "view": s.Render()})
}

// Reset handles POST /api/v1/sessions/:id/reset.
func (h *Handler) Reset(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	reset := s.Reset()
	c.JSON(http.StatusOK, gin.H{"reset": reset, "view": s.Render()})
}

// DeleteSession handles DELETE /api/v1/sessions/:id.
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (h *Handler) lookup(c *gin.Context) (*session.Session, bool) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

// detached keeps request values but not cancellation: an issued page fetch
// runs to completion even if the client goes away.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
