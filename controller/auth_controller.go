package controller

import (
	"net/http"

	"github.com/fairwayhq/teesheet/auth"
	"github.com/fairwayhq/teesheet/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
)

type AuthController struct {
	PlayerService *service.PlayerService
	JWTService    *auth.JWTService
}

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type signupForm struct {
	Name            string `schema:"name,required"`
	Email           string `schema:"email,required"`
	Password        string `schema:"password,required"`
	PasswordConfirm string `schema:"password-confirm,required"`
}

// Signup accepts the classic form post from the registration page.
func (h *AuthController) Signup(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed form"})
		return
	}

	var form signupForm
	if err := formDecoder.Decode(&form, c.Request.PostForm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.PlayerService.Signup(c.Request.Context(), service.SignupInput{
		Name:            form.Name,
		Email:           form.Email,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.JWTService.Generate(player)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "player": player.Summary()})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.PlayerService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.JWTService.Generate(player)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "player": player.Summary()})
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *AuthController) StartPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.PlayerService.StartPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	// Same answer whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"status": "Success"})
}

type passwordResetConfirmRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password-confirm" binding:"required"`
}

func (h *AuthController) ResetPassword(c *gin.Context) {
	var req passwordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.PlayerService.ResetPassword(c.Request.Context(), req.Token, req.Password, req.PasswordConfirm); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Success"})
}
