package controller

import (
	"net/http"

	"github.com/fairwayhq/teesheet/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type PlayerController struct {
	PlayerService *service.PlayerService
}

func (h *PlayerController) List(c *gin.Context) {
	players, err := h.PlayerService.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, players)
}

type createPlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *PlayerController) CreateUnregistered(c *gin.Context) {
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.PlayerService.CreateUnregistered(c.Request.Context(), currentPlayer(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *PlayerController) CurrentUser(c *gin.Context) {
	player := currentPlayer(c)
	c.JSON(http.StatusOK, gin.H{
		"name":          player.Name,
		"_id":           player.ID.Hex(),
		"organizations": player.Organizations,
	})
}

func (h *PlayerController) Delete(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	if err := h.PlayerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Success"})
}
