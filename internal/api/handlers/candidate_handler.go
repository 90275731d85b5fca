package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/services"
)

type CandidateHandler struct {
	candidates services.CandidateService
	sessions   services.SessionService
}

func NewCandidateHandler(candidates services.CandidateService, sessions services.SessionService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, sessions: sessions}
}

func (h *CandidateHandler) List(c *gin.Context) {
	out, err := h.candidates.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CandidateHandler) Get(c *gin.Context) {
	out, err := h.candidates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CandidateHandler) Score(c *gin.Context) {
	out, err := h.sessions.GetScore(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
