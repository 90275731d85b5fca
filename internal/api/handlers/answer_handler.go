package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/services"
)

type AnswerHandler struct {
	svc services.EvaluationService
}

func NewAnswerHandler(svc services.EvaluationService) *AnswerHandler {
	return &AnswerHandler{svc: svc}
}

func (h *AnswerHandler) Submit(c *gin.Context) {
	var req services.AnswerSubmission
	if !bindJSON(c, "AnswerHandler.Submit", &req) {
		return
	}

	out, err := h.svc.Evaluate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnswerHandler) FollowUp(c *gin.Context) {
	var req services.FollowUpSubmission
	if !bindJSON(c, "AnswerHandler.FollowUp", &req) {
		return
	}

	out, err := h.svc.EvaluateFollowUp(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnswerHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, err := h.svc.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidate_id": c.Param("id"), "items": rows})
}
