package catalog

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmate/search-service/internal/model"
)

// maxPageLimit caps a single page request.
const maxPageLimit = 100

// Handler serves the catalog over HTTP.
type Handler struct {
	store Store
}

// NewHandler returns a Handler backed by store.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the page contract and the import route.
//
//	POST /adhoc/getSampleJdJSON   {limit, offset} → {jdList, totalCount}
//	PUT  /api/v1/catalog/listings {jdList}        → {upserted}
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/adhoc/getSampleJdJSON", h.Page)
	r.PUT("/api/v1/catalog/listings", h.Import)
}

// Page answers one page request.
func (h *Handler) Page(c *gin.Context) {
	var req model.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if req.Limit < 1 || req.Limit > maxPageLimit || req.Offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1-100 and offset non-negative"})
		return
	}

	records, total, err := h.store.Page(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		slog.Error("catalog page failed", "limit", req.Limit, "offset", req.Offset, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listings"})
		return
	}

	c.JSON(http.StatusOK, model.PageResponse{JDList: records, TotalCount: total})
}

// Import upserts a batch of listings.
func (h *Handler) Import(c *gin.Context) {
	var body model.PageResponse
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	for i, rec := range body.JDList {
		if rec.JDUID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "jdUid is required", "index": i})
			return
		}
	}

	if err := h.store.Upsert(c.Request.Context(), body.JDList); err != nil {
		slog.Error("catalog import failed", "count", len(body.JDList), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import listings"})
		return
	}

	slog.Info("catalog import", "upserted", len(body.JDList))
	c.JSON(http.StatusOK, gin.H{"upserted": len(body.JDList)})
}
