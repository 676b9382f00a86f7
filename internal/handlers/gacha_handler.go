package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/cardclub/gacha-backend/internal/middleware"
	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/cardclub/gacha-backend/internal/services"
	"github.com/cardclub/gacha-backend/pkg/signer"
	"github.com/gin-gonic/gin"
)

// GachaHandler handles draw-related HTTP requests
type GachaHandler struct {
	drawService services.DrawService
	registry    *services.VersionRegistry
	signer      *signer.Signer
	tokenTTL    time.Duration
}

// NewGachaHandler creates a new GachaHandler
func NewGachaHandler(drawService services.DrawService, registry *services.VersionRegistry, s *signer.Signer, tokenTTL time.Duration) *GachaHandler {
	return &GachaHandler{
		drawService: drawService,
		registry:    registry,
		signer:      s,
		tokenTTL:    tokenTTL,
	}
}

// DrawRequest is the draw endpoint payload. currentPlayCount is a display
// hint from the client; it never influences authorization.
type DrawRequest struct {
	VersionID        string `json:"versionId" binding:"required"`
	CurrentPlayCount *int   `json:"currentPlayCount"`
}

// drawResponse wraps the persisted entry with the signed artwork URL and
// the remaining quota for client messaging
type drawResponse struct {
	Entry      *models.CollectionEntry `json:"entry"`
	ArtworkURL string                  `json:"artworkUrl"`
	Remaining  int                     `json:"remaining"`
}

// Draw handles POST /gacha/draw
func (h *GachaHandler) Draw(c *gin.Context) {
	h.draw(c, false)
}

// AdminDraw handles POST /admin/gacha/draw. Routed behind AdminOnly; this is
// the only path where the quota check may be skipped.
func (h *GachaHandler) AdminDraw(c *gin.Context) {
	h.draw(c, true)
}

func (h *GachaHandler) draw(c *gin.Context, bypassQuota bool) {
	var request DrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "BAD_REQUEST"})
		return
	}
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "kind": "UNAUTHORIZED"})
		return
	}

	opts := services.DrawOptions{
		BypassQuota:       bypassQuota,
		ReportedPlayCount: request.CurrentPlayCount,
	}
	entry, decision, err := h.drawService.PerformDraw(c.Request.Context(), userID, request.VersionID, opts)
	if err != nil {
		var quotaErr *models.QuotaExceededError
		switch {
		case errors.Is(err, models.ErrUnknownVersion):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown gacha version: " + request.VersionID, "kind": "UNKNOWN_VERSION"})
		case errors.As(err, &quotaErr):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     quotaErr.Error(),
				"kind":      "QUOTA_EXCEEDED",
				"maxPerDay": quotaErr.MaxPerDay,
				"remaining": 0,
			})
		case errors.Is(err, models.ErrQuotaUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Draws are temporarily unavailable, please retry", "kind": "QUOTA_UNAVAILABLE"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform draw", "kind": "INTERNAL"})
		}
		return
	}

	c.JSON(http.StatusCreated, drawResponse{
		Entry:      entry,
		ArtworkURL: "/image?" + h.signer.SignedQuery(entry.ArtworkObjectKey(), h.tokenTTL),
		Remaining:  decision.Remaining,
	})
}

// QuotaStatus handles GET /gacha/quota
func (h *GachaHandler) QuotaStatus(c *gin.Context) {
	userID := middleware.UserID(c)
	status, err := h.drawService.QuotaStatus(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Quota status unavailable", "kind": "QUOTA_UNAVAILABLE"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// versionResponse exposes display data without the probability weights
type versionResponse struct {
	ID             string `json:"id"`
	DisplayTitle   string `json:"displayTitle"`
	PackArtworkURL string `json:"packArtworkUrl,omitempty"`
}

// ListVersions handles GET /gacha/versions
func (h *GachaHandler) ListVersions(c *gin.Context) {
	versions := h.registry.List()
	out := make([]versionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, h.versionResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

// GetVersion handles GET /gacha/versions/:id
func (h *GachaHandler) GetVersion(c *gin.Context) {
	version, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown gacha version", "kind": "UNKNOWN_VERSION"})
		return
	}
	c.JSON(http.StatusOK, h.versionResponse(version))
}

func (h *GachaHandler) versionResponse(v *models.GachaVersion) versionResponse {
	resp := versionResponse{ID: v.ID, DisplayTitle: v.DisplayTitle}
	if v.PackArtworkKey != "" {
		resp.PackArtworkURL = "/image?" + h.signer.SignedQuery(v.PackArtworkKey, h.tokenTTL)
	}
	return resp
}
