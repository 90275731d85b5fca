package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/services"
)

type STTHandler struct {
	svc services.TranscriptionService
}

func NewSTTHandler(svc services.TranscriptionService) *STTHandler {
	return &STTHandler{svc: svc}
}

func (h *STTHandler) Transcribe(c *gin.Context) {
	var req services.TranscribeRequest
	if !bindJSON(c, "STTHandler.Transcribe", &req) {
		return
	}

	out, err := h.svc.Transcribe(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
