package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/service"
	"github.com/sambrocindrela-ctrl/gestor-examens/pkg/response"
)

// ImportHandler accepts file uploads feeding the session.
type ImportHandler struct {
	svc service.ImportService
}

// NewImportHandler builds an ImportHandler.
func NewImportHandler(svc service.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// ImportSubjects imports a subject catalog.
// POST /api/v1/import/subjects?mode=replace|merge
// multipart/form-data, field "file" (CSV or XLSX)
func (h *ImportHandler) ImportSubjects(c *gin.Context) {
	mode := c.DefaultQuery("mode", service.ModeReplace)

	file, header, ok := h.formFile(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := h.svc.ImportSubjects(c.Request.Context(), mode, header.Filename, file)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, summary)
}

// ImportRooms attaches rooms and enrollment to existing placements.
// POST /api/v1/import/rooms
func (h *ImportHandler) ImportRooms(c *gin.Context) {
	file, header, ok := h.formFile(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := h.svc.ImportRooms(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, summary)
}

// ImportCalendar rebuilds the grid from a visual calendar workbook.
// POST /api/v1/import/calendar
func (h *ImportHandler) ImportCalendar(c *gin.Context) {
	file, header, ok := h.formFile(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := h.svc.ImportCalendar(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, summary)
}

func (h *ImportHandler) formFile(c *gin.Context) (multipart.File, *multipart.FileHeader, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 13001, "upload a file under form field \"file\"")
		return nil, nil, false
	}
	return file, header, true
}

// handleImportError maps import errors to HTTP codes. Skipped rows are
// not errors; they arrive inside the success summary.
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownMode):
		response.BadRequest(c, 13002, "mode must be replace or merge")
	case errors.Is(err, service.ErrUnsupportedFile):
		response.BadRequest(c, 13003, "unsupported file type")
	case errors.Is(err, service.ErrEmptyImport):
		response.BadRequest(c, 13004, "file contains no usable rows")
	default:
		response.InternalError(c)
	}
}
