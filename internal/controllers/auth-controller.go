package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffery572/allergen-matrix-api/internal/middleware"
	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

// AuthController manages the owner PIN lock and edit sessions
type AuthController struct {
	store *store.Store
}

// NewAuthController creates a new instance of AuthController
func NewAuthController(st *store.Store) *AuthController {
	return &AuthController{store: st}
}

type pinRequest struct {
	PIN string `json:"pin"`
}

// Status godoc
// @Summary PIN lock status
// @Description Report whether the edit PIN lock is enabled
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/v1/auth/pin/status [get]
func (ac *AuthController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"enabled": ac.store.Document().PIN.Enabled})
}

// Unlock godoc
// @Summary Unlock editing
// @Description Exchange the owner PIN for a short-lived edit token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body pinRequest true "Owner PIN"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Router /api/v1/auth/pin [post]
func (ac *AuthController) Unlock(ctx *gin.Context) {
	var req pinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	if !ac.store.Document().PIN.Enabled {
		respondBadRequest(ctx, "PIN lock is not enabled")
		return
	}

	if !ac.store.CheckPIN(req.PIN) {
		ctx.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrCodeInvalidPIN, "Incorrect PIN"))
		return
	}

	token, err := middleware.IssueEditToken()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": int(middleware.EditSessionTTL.Seconds()),
	})
}

// SetPIN godoc
// @Summary Set the PIN
// @Description Enable the edit lock with a new PIN, or change the current one
// @Tags auth
// @Accept json
// @Produce json
// @Param body body pinRequest true "New PIN"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/auth/pin [put]
func (ac *AuthController) SetPIN(ctx *gin.Context) {
	var req pinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	if err := ac.store.SetPIN(req.PIN); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"enabled": true})
}

// DisablePIN godoc
// @Summary Disable the PIN
// @Description Turn the edit lock off and clear the stored PIN
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /api/v1/auth/pin [delete]
func (ac *AuthController) DisablePIN(ctx *gin.Context) {
	if err := ac.store.DisablePIN(); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"enabled": false})
}
