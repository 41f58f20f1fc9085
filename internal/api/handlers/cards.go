package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketscan/internal/models"
	"marketscan/internal/services"
)

type CardHandler struct {
	justTCG *services.JustTCGService
	tcgdex  *services.TCGdexService
}

func NewCardHandler(justTCG *services.JustTCGService, tcgdex *services.TCGdexService) *CardHandler {
	return &CardHandler{
		justTCG: justTCG,
		tcgdex:  tcgdex,
	}
}

type searchCardRequest struct {
	Query    string `json:"query"`
	GameName string `json:"gameName"`
}

// SearchCards is the passthrough search the browser client disambiguates
// from. An empty result set is a 200 with an empty data list; the client
// decides how to present it.
func (h *CardHandler) SearchCards(c *gin.Context) {
	var req searchCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.GameName == "" {
		req.GameName = string(models.GamePokemon)
	}

	cards, err := h.justTCG.SearchCards(c.Request.Context(), req.Query, req.GameName)
	if err != nil {
		log.Printf("card search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to search card"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cards})
}

// GetSetID resolves a set name to the pricing catalog's set id by exact
// case-insensitive match.
func (h *CardHandler) GetSetID(c *gin.Context) {
	setName := c.Query("setName")
	gameName := c.DefaultQuery("gameName", "Pokemon")

	if setName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing setName parameter"})
		return
	}

	setID, err := h.justTCG.FindSetID(c.Request.Context(), setName, gameName)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Set not found"})
			return
		}
		log.Printf("set lookup failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"setId": setID})
}

// CardImage resolves a card's artwork URL from its set name and collector
// number. A missing image is a normal state: the client renders a
// placeholder, so not-found returns 200 with a null imageUrl.
func (h *CardHandler) CardImage(c *gin.Context) {
	setName := c.Query("setName")
	number := c.Query("number")

	if setName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing setName parameter"})
		return
	}

	imageURL, err := h.tcgdex.ResolveImage(c.Request.Context(), setName, number)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"imageUrl": nil})
			return
		}
		log.Printf("image lookup failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to resolve card image"})
		return
	}

	if imageURL == "" {
		c.JSON(http.StatusOK, gin.H{"imageUrl": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}
