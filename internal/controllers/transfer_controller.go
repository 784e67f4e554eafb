package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/services"
)

// TransferController handles CSV import/export and JSON backup/restore
type TransferController interface {
	ExportItemsCSV(c *gin.Context)
	ImportItemsCSV(c *gin.Context)
	ItemsTemplate(c *gin.Context)
	ExportBulkCSV(c *gin.Context)
	ImportBulkCSV(c *gin.Context)
	BulkTemplate(c *gin.Context)
	ExportBackup(c *gin.Context)
	ImportBackup(c *gin.Context)
}

type transferController struct {
	csv      services.CSVService
	transfer services.TransferService
}

// NewTransferController creates a new instance of TransferController
func NewTransferController(csv services.CSVService, transfer services.TransferService) *transferController {
	return &transferController{csv: csv, transfer: transfer}
}

// readUpload returns the request payload as text: the "file" part of a
// multipart form when present, the raw body otherwise.
func readUpload(ctx *gin.Context) (string, error) {
	if file, err := ctx.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ExportItemsCSV godoc
// @Summary Export items as CSV
// @Description Download one takeaway's items in the single-takeaway CSV format
// @Tags transfer
// @Produce text/csv
// @Param id path string true "Takeaway ID"
// @Success 200 {string} string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/items/export [get]
func (tc *transferController) ExportItemsCSV(ctx *gin.Context) {
	text, err := tc.csv.ExportItems(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="menu-items.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(text))
}

// ImportItemsCSV godoc
// @Summary Import items from CSV
// @Description Append every data row of the uploaded CSV as a new item
// @Tags transfer
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Takeaway ID"
// @Param file formData file false "CSV file; the raw request body is used when absent"
// @Success 200 {object} map[string]int
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/takeaways/{id}/items/import [post]
func (tc *transferController) ImportItemsCSV(ctx *gin.Context) {
	text, err := readUpload(ctx)
	if err != nil {
		respondBadRequest(ctx, "Could not read upload")
		return
	}

	count, err := tc.csv.ImportItems(ctx.Param("id"), text)
	if err != nil {
		if errors.Is(err, models.ErrTakeawayNotFound) {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCodeImportFailed, err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"imported": count})
}

// ItemsTemplate godoc
// @Summary Item CSV template
// @Description Download a starter CSV in the single-takeaway format
// @Tags transfer
// @Produce text/csv
// @Success 200 {string} string
// @Router /api/v1/templates/items [get]
func (tc *transferController) ItemsTemplate(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="menu-items-template.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(tc.csv.ItemsTemplate()))
}

// ExportBulkCSV godoc
// @Summary Export all takeaways as CSV
// @Description Download every takeaway and item in the bulk CSV format
// @Tags transfer
// @Produce text/csv
// @Success 200 {string} string
// @Security BearerAuth
// @Router /api/v1/export/bulk [get]
func (tc *transferController) ExportBulkCSV(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="all-takeaways.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(tc.csv.ExportBulk()))
}

// ImportBulkCSV godoc
// @Summary Import takeaways from bulk CSV
// @Description Upsert items across takeaways, creating takeaways the CSV names but the store lacks. The import is atomic.
// @Tags transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "CSV file; the raw request body is used when absent"
// @Success 200 {object} services.BulkImportResult
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/import/bulk [post]
func (tc *transferController) ImportBulkCSV(ctx *gin.Context) {
	text, err := readUpload(ctx)
	if err != nil {
		respondBadRequest(ctx, "Could not read upload")
		return
	}

	result, err := tc.csv.ImportBulk(text)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCodeImportFailed, err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// BulkTemplate godoc
// @Summary Bulk CSV template
// @Description Download a starter CSV in the bulk format
// @Tags transfer
// @Produce text/csv
// @Success 200 {string} string
// @Router /api/v1/templates/bulk [get]
func (tc *transferController) BulkTemplate(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="bulk-template.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(tc.csv.BulkTemplate()))
}

// ExportBackup godoc
// @Summary Export backup
// @Description Download the full document as JSON, suitable for later restore
// @Tags transfer
// @Produce json
// @Success 200 {object} models.Document
// @Security BearerAuth
// @Router /api/v1/backup [get]
func (tc *transferController) ExportBackup(ctx *gin.Context) {
	text, err := tc.transfer.ExportBackup()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="allergen-backup.json"`)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(text))
}

// ImportBackup godoc
// @Summary Restore from backup
// @Description Replace the entire document with the uploaded backup. A rejected backup leaves the current data untouched.
// @Tags transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "Backup JSON; the raw request body is used when absent"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/restore [post]
func (tc *transferController) ImportBackup(ctx *gin.Context) {
	text, err := readUpload(ctx)
	if err != nil {
		respondBadRequest(ctx, "Could not read upload")
		return
	}

	if err := tc.transfer.ImportBackup(text); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrCodeImportFailed, err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "restored"})
}
