package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/services"
)

type CodingHandler struct {
	svc services.CodingService
}

func NewCodingHandler(svc services.CodingService) *CodingHandler {
	return &CodingHandler{svc: svc}
}

func (h *CodingHandler) Submit(c *gin.Context) {
	var req services.CodingSubmissionRequest
	if !bindJSON(c, "CodingHandler.Submit", &req) {
		return
	}

	out, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CodingHandler) Latest(c *gin.Context) {
	out, err := h.svc.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
