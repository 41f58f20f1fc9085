package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketscan/internal/models"
	"marketscan/internal/services"
)

type CollectionHandler struct {
	manager *services.CollectionManager
	history *services.HistoryTracker
}

func NewCollectionHandler(manager *services.CollectionManager, history *services.HistoryTracker) *CollectionHandler {
	return &CollectionHandler{
		manager: manager,
		history: history,
	}
}

func userEmail(c *gin.Context) string {
	return c.GetString("userEmail")
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	entries, err := h.manager.Restore(c.Request.Context(), userEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   services.Total(entries),
	})
}

type addToCollectionRequest struct {
	Card    models.Card    `json:"card"`
	Variant models.Variant `json:"variant"`
}

// AddToCollection persists a card/variant pair the client already resolved
// through search and disambiguation.
func (h *CollectionHandler) AddToCollection(c *gin.Context) {
	var req addToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Card.ID == "" || req.Variant.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card and variant are required"})
		return
	}

	entry, err := h.manager.Add(c.Request.Context(), userEmail(c), &req.Card, &req.Variant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *CollectionHandler) DeleteEntry(c *gin.Context) {
	variantID := c.Param("variantId")

	err := h.manager.Remove(c.Request.Context(), userEmail(c), variantID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetHistory returns the gap-filled daily value series for the trend chart.
func (h *CollectionHandler) GetHistory(c *gin.Context) {
	days := models.HistoryRetentionDays
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	points, err := h.history.Series(c.Request.Context(), userEmail(c), days, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}
