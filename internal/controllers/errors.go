package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
)

// respondError maps the service sentinels onto HTTP statuses and a uniform
// error body. Anything unrecognized is a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrTakeawayNotFound):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrCodeTakeawayNotFound, err.Error()))
	case errors.Is(err, models.ErrItemNotFound):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrCodeItemNotFound, err.Error()))
	case errors.Is(err, models.ErrNameRequired), errors.Is(err, models.ErrPINRequired):
		ctx.JSON(http.StatusUnprocessableEntity, models.NewAPIError(models.ErrCodeValidationFailed, err.Error()))
	case errors.Is(err, models.ErrLastTakeaway):
		ctx.JSON(http.StatusConflict, models.NewAPIError(models.ErrCodeLastTakeaway, err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrCodeInternalServer, "internal error"))
	}
}

func respondBadRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCodeBadRequest, message))
}
