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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionHandler handles collection-related HTTP requests
type CollectionHandler struct {
	collectionService services.CollectionService
	signer            *signer.Signer
	tokenTTL          time.Duration
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService services.CollectionService, s *signer.Signer, tokenTTL time.Duration) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		signer:            s,
		tokenTTL:          tokenTTL,
	}
}

type collectionEntryResponse struct {
	*models.CollectionEntry
	ArtworkURL string `json:"artworkUrl"`
}

// List handles GET /collection
func (h *CollectionHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	entries, err := h.collectionService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collection", "kind": "INTERNAL"})
		return
	}

	out := make([]collectionEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, collectionEntryResponse{
			CollectionEntry: e,
			ArtworkURL:      "/image?" + h.signer.SignedQuery(e.ArtworkObjectKey(), h.tokenTTL),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /collection/:id
func (h *CollectionHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format", "kind": "BAD_REQUEST"})
		return
	}
	userID := middleware.UserID(c)

	entry, err := h.collectionService.GetEntry(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found", "kind": "NOT_FOUND"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry", "kind": "INTERNAL"})
		}
		return
	}
	c.JSON(http.StatusOK, collectionEntryResponse{
		CollectionEntry: entry,
		ArtworkURL:      "/image?" + h.signer.SignedQuery(entry.ArtworkObjectKey(), h.tokenTTL),
	})
}
