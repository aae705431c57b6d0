package handler

import (
	"net/http"

	"github.com/campusgrid/studentportal/internal/dto"
	"github.com/campusgrid/studentportal/internal/middleware"
	"github.com/campusgrid/studentportal/internal/service"
	"github.com/campusgrid/studentportal/internal/token"
	"github.com/campusgrid/studentportal/pkg/response"
	"github.com/campusgrid/studentportal/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	tokens      *token.Service
}

func NewAuthHandler(authService service.AuthService, tokens *token.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Verify echoes the identity the auth middleware decoded from the bearer
// token.
func (h *AuthHandler) Verify(c *gin.Context) {
	ident, err := response.GetIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user":  ident,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	tokenString := middleware.BearerToken(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	signed, expiresAt, err := h.tokens.Refresh(tokenString)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{
		Message:     "Token refreshed",
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt.Unix(),
	})
}
