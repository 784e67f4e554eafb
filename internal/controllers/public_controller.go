package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/services"
)

// PublicController serves the customer-facing read-only views. Nothing here
// is gated by the PIN lock.
type PublicController interface {
	Menu(c *gin.Context)
	MenuBySlug(c *gin.Context)
	Allergens(c *gin.Context)
}

type publicController struct {
	transfer services.TransferService
}

// NewPublicController creates a new instance of PublicController
func NewPublicController(transfer services.TransferService) *publicController {
	return &publicController{transfer: transfer}
}

// Menu godoc
// @Summary Public menu
// @Description Get the customer-facing projection of every takeaway
// @Tags public
// @Produce json
// @Success 200 {object} models.PublicView
// @Router /api/v1/public/menu [get]
func (pc *publicController) Menu(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, pc.transfer.PublicView())
}

// MenuBySlug godoc
// @Summary Public menu by slug
// @Description Get one takeaway's customer-facing menu by its slug
// @Tags public
// @Produce json
// @Param slug path string true "Takeaway slug"
// @Success 200 {object} models.PublicTakeaway
// @Failure 404 {object} models.APIError
// @Router /api/v1/public/menu/{slug} [get]
func (pc *publicController) MenuBySlug(ctx *gin.Context) {
	view, err := pc.transfer.PublicTakeaway(ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// Allergens godoc
// @Summary Allergen catalog
// @Description Get the fixed allergen catalog in display order
// @Tags public
// @Produce json
// @Success 200 {array} models.Allergen
// @Router /api/v1/public/allergens [get]
func (pc *publicController) Allergens(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Catalog())
}
