package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/auth"
	"github.com/your-org/disasterbio/internal/intake"
	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/offline"
	"github.com/your-org/disasterbio/internal/registry"
	"github.com/your-org/disasterbio/pkg/dto"
)

type SessionHandler struct {
	sessions *intake.Sessions
	store    *registry.Store
	// offline is nil when sync is disabled.
	offline *offline.Queue
}

func NewSessionHandler(sessions *intake.Sessions, store *registry.Store, q *offline.Queue) *SessionHandler {
	return &SessionHandler{sessions: sessions, store: store, offline: q}
}

func sessionResponse(st intake.SessionState) dto.SessionResponse {
	return dto.SessionResponse{ID: st.ID, Fields: st.Fields, Flags: st.Flags, Summary: st.Summary}
}

func (h *SessionHandler) session(c *gin.Context) (*intake.Session, bool) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		writeError(c, apperr.Newf(apperr.KindNotFound, "session %s not found", c.Param("id")))
	}
	return s, ok
}

func (h *SessionHandler) Open(c *gin.Context) {
	s := h.sessions.Open()
	c.JSON(http.StatusCreated, sessionResponse(s.State()))
}

func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s.State()))
}

func (h *SessionHandler) SetFields(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var f intake.Fields
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.SetFields(f)
	c.JSON(http.StatusOK, sessionResponse(s.State()))
}

func (h *SessionHandler) CaptureFingerprint(c *gin.Context) {
	h.capture(c, intake.CaptureFingerprint)
}

func (h *SessionHandler) CapturePhoto(c *gin.Context) {
	h.capture(c, intake.CapturePhoto)
}

func (h *SessionHandler) capture(c *gin.Context, kind intake.Capture) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.StartCapture(kind); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, sessionResponse(s.State()))
}

func (h *SessionHandler) Submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	op := intake.Operator{Name: auth.OperatorName(c), Team: models.DefaultOperatorTeam}
	rec, err := s.Submit(c.Request.Context(), h.store, op)
	warning, err := persistWarning(err)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.offline != nil {
		if err := h.offline.Enqueue(c.Request.Context(), rec); err != nil {
			slog.Error("queue record for sync", "id", rec.ID, "error", err)
		}
	}

	c.JSON(http.StatusCreated, dto.VictimResponse{Victim: rec, Warning: warning})
}

func (h *SessionHandler) Close(c *gin.Context) {
	if !h.sessions.Close(c.Param("id")) {
		writeError(c, apperr.Newf(apperr.KindNotFound, "session %s not found", c.Param("id")))
		return
	}
	c.Status(http.StatusNoContent)
}
