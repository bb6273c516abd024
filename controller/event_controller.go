package controller

import (
	"net/http"

	"github.com/fairwayhq/teesheet/entity"
	"github.com/fairwayhq/teesheet/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type EventController struct {
	EventService *service.EventService
}

// flightPlayerRequest mirrors the embedded flight entry coming from the
// client. The id is a hex string and may be absent on add.
type flightPlayerRequest struct {
	ID   string `json:"_id"`
	Name string `json:"name" binding:"required"`
}

func (r flightPlayerRequest) toEntity() *entity.FlightPlayer {
	entry := &entity.FlightPlayer{Name: r.Name}
	if id, err := bson.ObjectIDFromHex(r.ID); err == nil {
		entry.PlayerID = id
	}
	return entry
}

func (h *EventController) GetUpcomingEvents(c *gin.Context) {
	events, err := h.EventService.UpcomingForUser(c.Request.Context(), currentPlayer(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

type addPlayerRequest struct {
	Event  string              `json:"event" binding:"required"`
	Flight *int                `json:"flight" binding:"required"`
	Player flightPlayerRequest `json:"player" binding:"required"`
}

func (h *EventController) AddPlayer(c *gin.Context) {
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID, err := bson.ObjectIDFromHex(req.Event)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	_, already, err := h.EventService.AddPlayerToFlight(c.Request.Context(), currentPlayer(c), eventID, *req.Flight, req.Player.toEntity())
	if err != nil {
		respondError(c, err)
		return
	}

	if already {
		c.JSON(http.StatusOK, gin.H{"status": "already in flight"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Success"})
}

type removePlayerRequest struct {
	Event  string              `json:"event" binding:"required"`
	Flight *int                `json:"flight" binding:"required"`
	Player flightPlayerRequest `json:"player" binding:"required"`
}

func (h *EventController) RemovePlayer(c *gin.Context) {
	var req removePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID, err := bson.ObjectIDFromHex(req.Event)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.EventService.RemovePlayerFromFlight(c.Request.Context(), currentPlayer(c), eventID, *req.Flight, req.Player.toEntity())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

type movePlayerRequest struct {
	Event      string              `json:"event" binding:"required"`
	FromFlight *int                `json:"fromFlight" binding:"required"`
	ToFlight   *int                `json:"toFlight" binding:"required"`
	Player     flightPlayerRequest `json:"player" binding:"required"`
}

func (h *EventController) MovePlayer(c *gin.Context) {
	var req movePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID, err := bson.ObjectIDFromHex(req.Event)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.EventService.MovePlayerBetweenFlights(c.Request.Context(), currentPlayer(c), eventID, *req.FromFlight, *req.ToFlight, req.Player.toEntity())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}
