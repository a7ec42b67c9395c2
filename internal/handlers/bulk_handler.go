package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/bulk"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/services"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BulkHandler handles spreadsheet upload, validation and batch submission
type BulkHandler struct {
	registry    *bulk.Registry
	submissions *services.SubmissionService
	logger      *logrus.Logger
}

// NewBulkHandler creates a new bulk upload handler
func NewBulkHandler(registry *bulk.Registry, submissions *services.SubmissionService, logger *logrus.Logger) *BulkHandler {
	return &BulkHandler{registry: registry, submissions: submissions, logger: logger}
}

// ValidateResponse reports the inferred schema and any violated rules
type ValidateResponse struct {
	Schema   string          `json:"schema"`
	RowCount int             `json:"row_count"`
	Valid    bool            `json:"valid"`
	Errors   []bulk.RowError `json:"errors,omitempty"`
}

// Validate handles POST /api/v1/bulk/validate
func (h *BulkHandler) Validate(c *gin.Context) {
	schema, rows, ok := h.parseUpload(c)
	if !ok {
		return
	}

	errs := bulk.Validate(schema, rows)
	c.JSON(http.StatusOK, ValidateResponse{
		Schema:   schema.Name,
		RowCount: len(rows),
		Valid:    len(errs) == 0,
		Errors:   errs,
	})
}

// Submit handles POST /api/v1/bulk/submit. All rows must pass validation;
// the batch is inserted in one request and either fully succeeds or fully
// fails.
func (h *BulkHandler) Submit(c *gin.Context) {
	schema, rows, ok := h.parseUpload(c)
	if !ok {
		return
	}

	if errs := bulk.Validate(schema, rows); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation_error",
			"message": fmt.Sprintf("File contains %d invalid values", len(errs)),
			"errors":  errs,
		})
		return
	}

	inserted, err := h.submissions.SubmitBatch(schema.Table, rows)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "backend_error",
				Message: apiErr.Error(),
				Code:    "BACKEND_ERROR",
			})
			return
		}
		h.logger.WithError(err).Error("Batch submission failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong. Please try again.",
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"schema": schema.Name,
		"rows":   inserted,
	}).Info("Batch submitted")

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Batch submitted",
		"schema":   schema.Name,
		"inserted": inserted,
	})
}

// Export handles POST /api/v1/bulk/export: it echoes the validated,
// normalized table back as a downloadable spreadsheet.
func (h *BulkHandler) Export(c *gin.Context) {
	schema, rows, ok := h.parseUpload(c)
	if !ok {
		return
	}

	if errs := bulk.Validate(schema, rows); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation_error",
			"message": fmt.Sprintf("File contains %d invalid values", len(errs)),
			"errors":  errs,
		})
		return
	}

	encoded, err := bulk.WriteXLSX(schema, rows)
	if err != nil {
		h.logger.WithError(err).Error("Spreadsheet export failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to build the spreadsheet",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", schema.Name))
	c.Data(http.StatusOK, xlsxContentType, encoded)
}

// Template handles GET /api/v1/bulk/templates/:schema, serving a blank
// upload template for the named schema.
func (h *BulkHandler) Template(c *gin.Context) {
	schema, ok := h.registry.Lookup(c.Param("schema"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Unknown template. Available: Destinasi, Industri",
		})
		return
	}

	encoded, err := bulk.TemplateXLSX(schema)
	if err != nil {
		h.logger.WithError(err).Error("Template generation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to build the template",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=Template_%s.xlsx", schema.Name))
	c.Data(http.StatusOK, xlsxContentType, encoded)
}

// parseUpload reads the multipart file, infers its schema and normalizes
// the rows. On failure it writes the error response and returns ok=false.
func (h *BulkHandler) parseUpload(c *gin.Context) (*bulk.Schema, []map[string]interface{}, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_file",
			Message: "A .csv or .xlsx file is required",
		})
		return nil, nil, false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_file",
			Message: "Failed to read the uploaded file",
		})
		return nil, nil, false
	}
	defer file.Close()

	table, err := bulk.ParseFile(header.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_file",
			Message: err.Error(),
		})
		return nil, nil, false
	}

	schema, err := h.registry.Match(table.Columns)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "schema_mismatch",
			Message: err.Error(),
			Code:    "SCHEMA_MISMATCH",
		})
		return nil, nil, false
	}

	return schema, bulk.Normalize(schema, table), true
}
