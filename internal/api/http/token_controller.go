package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Molza01/Communicaton-Web-App/internal/service"
)

type TokenController struct {
	tokens service.TokenInteractor
}

func NewTokenController(tokens service.TokenInteractor) *TokenController {
	return &TokenController{tokens: tokens}
}

func (c *TokenController) Generate(ctx *gin.Context) {
	type request struct {
		UserID string `json:"userId" binding:"required"`
		Email  string `json:"email" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId and email are required"})
		return
	}

	token, err := c.tokens.Generate(req.UserID, req.Email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

func (c *TokenController) Verify(ctx *gin.Context) {
	type request struct {
		Token string `json:"token" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	claims, err := c.tokens.Verify(req.Token)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "invalid or expired token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"valid": true, "data": claims})
}
