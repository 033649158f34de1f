package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tmatias/planwise/backend/internal/config"
	"github.com/tmatias/planwise/backend/internal/middleware"
	"github.com/tmatias/planwise/backend/internal/services"
	"github.com/tmatias/planwise/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, jwtCfg),
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenPayload struct {
	AccessToken     string      `json:"access_token"`
	AccessExpireAt  string      `json:"access_expire_at"`
	RefreshToken    string      `json:"refresh_token"`
	RefreshExpireAt string      `json:"refresh_expire_at"`
	User            interface{} `json:"user,omitempty"`
}

// SignUp registers a new account
// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req services.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.SignUp(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	services.LogInfo("Auth", "SignUp", "User signed up: "+req.Email, &result.User.ID, c.ClientIP(), c.Request.UserAgent(), nil)

	response.Created(c, "User successfully signed up.", authPayload(result))
}

// SignIn authenticates a user
// POST /api/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req services.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.SignIn(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		services.LogWarning("Auth", "SignIn", "Failed sign-in for "+req.Email, nil, c.ClientIP(), c.Request.UserAgent(), nil)
		response.Error(c, err)
		return
	}

	response.OK(c, "User successfully signed in.", authPayload(result))
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Refresh(req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tokens successfully refreshed.", tokenPayload{
		AccessToken:     result.AccessToken,
		AccessExpireAt:  result.AccessExpireAt.Format(time.RFC3339),
		RefreshToken:    result.RefreshToken,
		RefreshExpireAt: result.RefreshExpireAt.Format(time.RFC3339),
	})
}

// SignOut revokes the presented refresh token
// POST /api/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.RevokeRefreshToken(req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}

	userID := middleware.GetUserID(c)
	services.LogInfo("Auth", "SignOut", "User signed out", &userID, c.ClientIP(), c.Request.UserAgent(), nil)

	response.Message(c, "User successfully signed out.")
}

func authPayload(result *services.AuthResult) tokenPayload {
	return tokenPayload{
		AccessToken:     result.AccessToken,
		AccessExpireAt:  result.AccessExpireAt.Format(time.RFC3339),
		RefreshToken:    result.RefreshToken,
		RefreshExpireAt: result.RefreshExpireAt.Format(time.RFC3339),
		User:            result.User,
	}
}
