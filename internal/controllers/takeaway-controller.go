package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffery572/allergen-matrix-api/internal/services"
	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

// TakeawayController handles HTTP requests related to takeaways
type TakeawayController interface {
	// ListTakeaways retrieves all takeaways and the active pointer
	ListTakeaways(c *gin.Context)
	// CreateTakeaway creates a new takeaway and makes it active
	CreateTakeaway(c *gin.Context)
	// RenameTakeaway renames a takeaway, re-deriving its slug
	RenameTakeaway(c *gin.Context)
	// SetBusinessName sets the customer-facing name override
	SetBusinessName(c *gin.Context)
	// DeleteTakeaway deletes a takeaway and all of its items
	DeleteTakeaway(c *gin.Context)
	// ActivateTakeaway switches the active takeaway
	ActivateTakeaway(c *gin.Context)
	// ResetTakeaway clears a takeaway's items
	ResetTakeaway(c *gin.Context)
	// ShareLinks returns the shareable menu links for a takeaway
	ShareLinks(c *gin.Context)
}

type takeawayController struct {
	store *store.Store
	share services.ShareService
}

// NewTakeawayController creates a new instance of TakeawayController
func NewTakeawayController(st *store.Store, share services.ShareService) *takeawayController {
	return &takeawayController{store: st, share: share}
}

type takeawayRequest struct {
	Name string `json:"name"`
}

type businessNameRequest struct {
	BusinessName string `json:"businessName"`
}

// ListTakeaways godoc
// @Summary List takeaways
// @Description Get all takeaways, newest first, plus the active takeaway id
// @Tags takeaways
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/takeaways [get]
func (tc *takeawayController) ListTakeaways(ctx *gin.Context) {
	doc := tc.store.Document()
	ctx.JSON(http.StatusOK, gin.H{
		"takeaways":        doc.Takeaways,
		"activeTakeawayId": doc.ActiveTakeawayID,
	})
}

// CreateTakeaway godoc
// @Summary Create a takeaway
// @Description Create a new takeaway with a unique slug derived from its name
// @Tags takeaways
// @Accept json
// @Produce json
// @Param takeaway body takeawayRequest true "Takeaway name"
// @Success 201 {object} models.Takeaway
// @Failure 400 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways [post]
func (tc *takeawayController) CreateTakeaway(ctx *gin.Context) {
	var req takeawayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	t, err := tc.store.CreateTakeaway(req.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, t)
}

// RenameTakeaway godoc
// @Summary Rename a takeaway
// @Description Rename a takeaway; the slug is re-derived and kept unique
// @Tags takeaways
// @Accept json
// @Produce json
// @Param id path string true "Takeaway ID"
// @Param takeaway body takeawayRequest true "New name"
// @Success 200 {object} models.Takeaway
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id} [put]
func (tc *takeawayController) RenameTakeaway(ctx *gin.Context) {
	var req takeawayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	t, err := tc.store.RenameTakeaway(ctx.Param("id"), req.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, t)
}

// SetBusinessName godoc
// @Summary Set business name
// @Description Set or clear the customer-facing business name override
// @Tags takeaways
// @Accept json
// @Produce json
// @Param id path string true "Takeaway ID"
// @Param body body businessNameRequest true "Business name, empty to clear"
// @Success 200 {object} models.Takeaway
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/business-name [put]
func (tc *takeawayController) SetBusinessName(ctx *gin.Context) {
	var req businessNameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	t, err := tc.store.SetBusinessName(ctx.Param("id"), req.BusinessName)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, t)
}

// DeleteTakeaway godoc
// @Summary Delete a takeaway
// @Description Delete a takeaway and every item it owns. The last remaining takeaway cannot be deleted.
// @Tags takeaways
// @Produce json
// @Param id path string true "Takeaway ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id} [delete]
func (tc *takeawayController) DeleteTakeaway(ctx *gin.Context) {
	if err := tc.store.DeleteTakeaway(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// ActivateTakeaway godoc
// @Summary Activate a takeaway
// @Description Make the given takeaway the active editing scope
// @Tags takeaways
// @Produce json
// @Param id path string true "Takeaway ID"
// @Success 200 {object} models.Takeaway
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/activate [post]
func (tc *takeawayController) ActivateTakeaway(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := tc.store.SetActiveTakeaway(id); err != nil {
		respondError(ctx, err)
		return
	}
	t, err := tc.store.FindTakeaway(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, t)
}

// ResetTakeaway godoc
// @Summary Reset a takeaway
// @Description Remove all items from a takeaway, keeping the takeaway itself
// @Tags takeaways
// @Produce json
// @Param id path string true "Takeaway ID"
// @Success 200 {object} models.Takeaway
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/reset [post]
func (tc *takeawayController) ResetTakeaway(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := tc.store.ResetTakeaway(id); err != nil {
		respondError(ctx, err)
		return
	}
	t, err := tc.store.FindTakeaway(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, t)
}

// ShareLinks godoc
// @Summary Share links for a takeaway
// @Description Get the menu, customer-view, self-contained and QR image links for a takeaway
// @Tags takeaways
// @Produce json
// @Param id path string true "Takeaway ID"
// @Success 200 {object} services.ShareLinks
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/share [get]
func (tc *takeawayController) ShareLinks(ctx *gin.Context) {
	links, err := tc.share.Links(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, links)
}
