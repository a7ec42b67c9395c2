package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/services"
)

// ProgressHandler handles the admin submission-progress report
type ProgressHandler struct {
	progress  *services.ProgressService
	directory *services.DirectoryService
	logger    *logrus.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progress *services.ProgressService, directory *services.DirectoryService, logger *logrus.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, directory: directory, logger: logger}
}

// Report handles GET /api/v1/admin/progress
func (h *ProgressHandler) Report(c *gin.Context) {
	report, err := h.progress.Report()
	if err != nil {
		h.logger.WithError(err).Error("Progress report failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "backend_error",
			Message: "Failed to build the progress report",
			Code:    "BACKEND_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Regions handles GET /api/v1/regions
func (h *ProgressHandler) Regions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": h.directory.AllRegions()})
}
