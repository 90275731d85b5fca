package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/services"
	"github.com/yoockh/aieta/internal/utils"
	"github.com/yoockh/aieta/internal/workers"
)

// WSHandler streams preprocessing status published by the worker pool.
type WSHandler struct {
	preprocess services.PreprocessService
	status     workers.StatusSubscriber
	upgrader   websocket.Upgrader
}

func NewWSHandler(preprocess services.PreprocessService, status workers.StatusSubscriber, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		preprocess: preprocess,
		status:     status,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := map[string]bool{}
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writeStatus(m workers.StatusMessage) error {
	m.Type = "status"
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return w.writeText(b)
}

func (w *wsConn) close(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(time.Second))
}

func (h *WSHandler) PreprocessWS(c *gin.Context) {
	const op = "WSHandler.PreprocessWS"

	if h.status == nil {
		writeError(c, utils.E(utils.CodeInternal, op, "status streaming is not configured", nil))
		return
	}

	candidateID := c.Param("candidate_id")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// subscribe before reading the current status so no transition is missed
	updates, closeSub, err := h.status.SubscribeStatus(ctx, candidateID)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to subscribe to status", err))
		return
	}
	defer func() { _ = closeSub() }()

	status, err := h.preprocess.Status(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	if err := wc.writeStatus(workers.StatusMessage{CandidateID: candidateID, Status: status}); err != nil {
		return
	}
	if isTerminal(status) {
		wc.close(status)
		return
	}

	// reader: only needed to notice the client going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-updates:
			if !ok {
				return
			}
			if err := wc.writeStatus(m); err != nil {
				return
			}
			if isTerminal(m.Status) {
				wc.close(m.Status)
				return
			}
		}
	}
}

func isTerminal(status string) bool {
	return status == models.PreprocessReady || status == models.PreprocessFailed
}
