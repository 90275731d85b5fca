package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/services"
)

type PreprocessHandler struct {
	svc services.PreprocessService
}

func NewPreprocessHandler(svc services.PreprocessService) *PreprocessHandler {
	return &PreprocessHandler{svc: svc}
}

func (h *PreprocessHandler) StoreQuestions(c *gin.Context) {
	var req services.StoreQuestionsRequest
	if !bindJSON(c, "PreprocessHandler.StoreQuestions", &req) {
		return
	}

	out, err := h.svc.StoreQuestions(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *PreprocessHandler) Status(c *gin.Context) {
	id := c.Param("candidate_id")
	st, err := h.svc.Status(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidate_id": id, "status": st})
}
