package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cardclub/gacha-backend/pkg/signer"
	"github.com/cardclub/gacha-backend/pkg/storage"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// ObjectFetcher is the slice of the storage client the media proxy needs
type ObjectFetcher interface {
	Fetch(ctx context.Context, objectKey string) (*storage.Object, error)
}

// MediaHandler resolves signed artwork requests into temporary reads of the
// private storage backend. A pure pass-through: the token, not the proxy,
// is the access boundary.
type MediaHandler struct {
	signer  *signer.Signer
	storage ObjectFetcher
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(s *signer.Signer, store ObjectFetcher) *MediaHandler {
	return &MediaHandler{signer: s, storage: store}
}

// GetImage handles GET /image?key=...&expires=...&token=...
func (h *MediaHandler) GetImage(c *gin.Context) {
	objectKey := c.Query("key")
	if objectKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key parameter", "kind": "BAD_REQUEST"})
		return
	}

	// An unparsable expiry fails the same way as a bad signature so callers
	// cannot tell which check rejected them.
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil || !h.signer.Verify(objectKey, expires, c.Query("token")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token", "kind": "FORBIDDEN"})
		return
	}

	obj, err := h.storage.Fetch(c.Request.Context(), objectKey)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Object not found", "kind": "NOT_FOUND"})
		case errors.Is(err, storage.ErrUpstream):
			slog.Error("Storage backend failure", "error", err, "key", objectKey)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Storage backend unavailable", "kind": "UPSTREAM_MEDIA_ERROR"})
		default:
			slog.Error("Unexpected media proxy failure", "error", err, "key", objectKey)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "kind": "INTERNAL"})
		}
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	// Brief caching is safe: access is bounded by the token's expiry,
	// not by the cache.
	extraHeaders := map[string]string{"Cache-Control": "private, max-age=60"}
	c.DataFromReader(http.StatusOK, -1, contentType, obj.Body, extraHeaders)
}
