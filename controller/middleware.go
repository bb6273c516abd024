package controller

import (
	"net/http"
	"strings"

	"github.com/fairwayhq/teesheet/auth"
	"github.com/fairwayhq/teesheet/entity"
	"github.com/fairwayhq/teesheet/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const contextPlayerKey = "player"

// RequireUser resolves the Bearer token to a full player document and
// stores it in the gin context as the acting user for the request.
func RequireUser(jwtService *auth.JWTService, playerService *service.PlayerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		playerID, err := bson.ObjectIDFromHex(claims.PlayerID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		player, err := playerService.FindOneByID(c.Request.Context(), playerID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
			return
		}

		c.Set(contextPlayerKey, player)
		c.Next()
	}
}

func currentPlayer(c *gin.Context) *entity.Player {
	v, _ := c.Get(contextPlayerKey)
	player, _ := v.(*entity.Player)
	return player
}
