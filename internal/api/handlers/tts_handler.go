package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/services"
	"github.com/yoockh/aieta/internal/utils"
)

type TTSHandler struct {
	svc services.SpeechService
}

func NewTTSHandler(svc services.SpeechService) *TTSHandler {
	return &TTSHandler{svc: svc}
}

type SpeakResponse struct {
	Success     bool   `json:"success"`
	AudioBase64 string `json:"audio_base64"`
	Text        string `json:"text"`
	Language    string `json:"language"`
	Format      string `json:"format"`
	Source      string `json:"source"`
}

func (h *TTSHandler) SpeakBase64(c *gin.Context) {
	var req services.ResolveRequest
	if !bindJSON(c, "TTSHandler.SpeakBase64", &req) {
		return
	}

	out, err := h.svc.Resolve(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SpeakResponse{
		Success:     true,
		AudioBase64: base64.StdEncoding.EncodeToString(out.Audio),
		Text:        out.Text,
		Language:    out.Language,
		Format:      "mp3",
		Source:      out.Source,
	})
}

func (h *TTSHandler) SpeakFile(c *gin.Context) {
	const op = "TTSHandler.SpeakFile"

	id := c.Param("id")
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "question number must be an integer", err))
		return
	}

	b, err := h.svc.ResolveByIndex(c.Request.Context(), id, n)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="tts_%s_%d.mp3"`, id, n))
	c.Data(http.StatusOK, "audio/mpeg", b)
}
