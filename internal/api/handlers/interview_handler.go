package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/services"
)

type InterviewHandler struct {
	templates services.TemplateService
	sessions  services.SessionService
}

func NewInterviewHandler(templates services.TemplateService, sessions services.SessionService) *InterviewHandler {
	return &InterviewHandler{templates: templates, sessions: sessions}
}

type SetupRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
}

type CompleteRequest struct {
	CandidateID  string               `json:"candidate_id"`
	SessionID    string               `json:"session_id"`
	Interactions []models.Interaction `json:"interactions"`
}

func (h *InterviewHandler) Setup(c *gin.Context) {
	var req SetupRequest
	if !bindJSON(c, "InterviewHandler.Setup", &req) {
		return
	}

	out, err := h.templates.Setup(c.Request.Context(), req.CandidateID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) CompleteAndSave(c *gin.Context) {
	var req CompleteRequest
	if !bindJSON(c, "InterviewHandler.CompleteAndSave", &req) {
		return
	}

	out, err := h.sessions.CompleteAndSave(c.Request.Context(), req.CandidateID, req.SessionID, req.Interactions)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Delete(c *gin.Context) {
	out, err := h.sessions.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Statistics(c *gin.Context) {
	out, err := h.sessions.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
