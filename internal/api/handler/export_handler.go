package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/service"
	"github.com/sambrocindrela-ctrl/gestor-examens/pkg/response"
)

// ExportHandler streams the session in its downloadable formats.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler builds an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportJSON GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	h.download(c, h.exportSvc.ExportJSON, "application/json")
}

// ExportCSV GET /api/v1/export/csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	h.download(c, h.exportSvc.ExportCSV, "text/csv; charset=utf-8")
}

// ExportXLSX GET /api/v1/export/xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	h.download(c, h.exportSvc.ExportXLSX,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ExportICS GET /api/v1/export/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	h.download(c, h.exportSvc.ExportICS, "text/calendar; charset=utf-8")
}

func (h *ExportHandler) download(c *gin.Context, build func(context.Context) (*bytes.Buffer, string, error), contentType string) {
	buf, filename, err := build(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNothing):
		response.NotFound(c, 16101, "no placements to export")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
