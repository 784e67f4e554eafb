package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/services"
)

// ItemController handles HTTP requests for a takeaway's menu items
type ItemController interface {
	// ListItems retrieves a takeaway's items, filtered and sorted
	ListItems(c *gin.Context)
	// CreateItem adds a new item to a takeaway
	CreateItem(c *gin.Context)
	// UpdateItem updates an existing item
	UpdateItem(c *gin.Context)
	// DeleteItem deletes an item
	DeleteItem(c *gin.Context)
}

type itemController struct {
	service services.ItemService
}

// NewItemController creates a new instance of ItemController
func NewItemController(service services.ItemService) *itemController {
	return &itemController{service: service}
}

// ListItems godoc
// @Summary List items
// @Description Get a takeaway's items with optional substring search and sorting
// @Tags items
// @Produce json
// @Param id path string true "Takeaway ID"
// @Param q query string false "Search across name, category and ingredients"
// @Param sort query string false "Sort mode: newest, alpha or category"
// @Success 200 {array} models.Item
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/items [get]
func (ic *itemController) ListItems(ctx *gin.Context) {
	items, err := ic.service.ListItems(ctx.Param("id"), ctx.Query("q"), ctx.Query("sort"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// CreateItem godoc
// @Summary Create an item
// @Description Add a new item to the front of a takeaway's list
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Takeaway ID"
// @Param item body models.ItemFields true "Item fields"
// @Success 201 {object} models.Item
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/items [post]
func (ic *itemController) CreateItem(ctx *gin.Context) {
	var fields models.ItemFields
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	item, err := ic.service.AddItem(ctx.Param("id"), fields)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Update an item
// @Description Update an existing item in place; omitted allergens keep their current values
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Takeaway ID"
// @Param itemId path string true "Item ID"
// @Param item body models.ItemFields true "Item fields"
// @Success 200 {object} models.Item
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/items/{itemId} [put]
func (ic *itemController) UpdateItem(ctx *gin.Context) {
	var fields models.ItemFields
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	item, err := ic.service.UpdateItem(ctx.Param("id"), ctx.Param("itemId"), fields)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete an item
// @Description Delete an item from a takeaway
// @Tags items
// @Produce json
// @Param id path string true "Takeaway ID"
// @Param itemId path string true "Item ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/items/{itemId} [delete]
func (ic *itemController) DeleteItem(ctx *gin.Context) {
	if err := ic.service.DeleteItem(ctx.Param("id"), ctx.Param("itemId")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
