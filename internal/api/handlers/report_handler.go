package handlers

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/services"
)

type ReportHandler struct {
	svc services.ReportService
}

func NewReportHandler(svc services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) HTML(c *gin.Context) {
	path, err := h.svc.Build(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.FileAttachment(path, filepath.Base(path))
}

func (h *ReportHandler) XLSX(c *gin.Context) {
	path, err := h.svc.ExportXLSX(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
