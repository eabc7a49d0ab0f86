package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finboard/internal/errors"
	"finboard/internal/services"
)

// maxImportBytes bounds the size of an import payload.
const maxImportBytes = 5 << 20

// DataHandler handles export and import of the finance data.
type DataHandler struct {
	dashboardService services.DashboardServicer
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dashboardService services.DashboardServicer) *DataHandler {
	return &DataHandler{dashboardService: dashboardService}
}

// Export returns the complete persisted state as a download
// @Summary     Export finance data
// @Tags        data
// @Produce     json
// @Success     200 {object} models.Snapshot
// @Router      /export [get]
func (h *DataHandler) Export(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="finance-data.json"`)
	c.JSON(http.StatusOK, h.dashboardService.Export())
}

// Import replaces the state with a previously exported payload
// @Summary     Import finance data
// @Tags        data
// @Accept      json
// @Produce     json
// @Param       request body models.Snapshot true "Exported finance data"
// @Success     200 {object} object{import=services.ImportResult}
// @Failure     400 {object} ErrorResponse "Invalid payload"
// @Security    APIKey
// @Router      /import [post]
func (h *DataHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidImport, "Import payload is too large"))
			return
		}
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	result, err := h.dashboardService.Import(c.Request.Context(), body)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"import": result})
}
