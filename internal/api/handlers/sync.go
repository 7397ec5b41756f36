package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/disasterbio/internal/auth"
	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/offline"
	"github.com/your-org/disasterbio/internal/registry"
	"github.com/your-org/disasterbio/pkg/dto"
)

type SyncHandler struct {
	syncer   *offline.Syncer
	settings *registry.Settings
}

func NewSyncHandler(syncer *offline.Syncer, settings *registry.Settings) *SyncHandler {
	return &SyncHandler{syncer: syncer, settings: settings}
}

// Sync runs the cloud sync and blocks until it finishes.
func (h *SyncHandler) Sync(c *gin.Context) {
	res, err := h.syncer.Sync(c.Request.Context(), registry.DisplayOperator(auth.OperatorName(c)))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SyncResponse{
		LastSync: res.LastSync.String(),
		Uploaded: res.Uploaded,
		Pending:  res.Pending,
	})
}

func (h *SyncHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	last, ok, err := h.syncer.LastSync(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	pending, err := h.syncer.Queue().Pending(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.SyncStatusResponse{Pending: len(pending)}
	if ok {
		s := last.String()
		resp.LastSync = &s
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SyncHandler) GetOperator(c *gin.Context) {
	name, err := h.settings.OperatorName(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, operatorResponse(name))
}

func (h *SyncHandler) SetOperator(c *gin.Context) {
	var req dto.OperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settings.SetOperatorName(c.Request.Context(), req.Name); err != nil {
		writeError(c, err)
		return
	}
	name, err := h.settings.OperatorName(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, operatorResponse(name))
}

func operatorResponse(name string) dto.OperatorResponse {
	return dto.OperatorResponse{
		Name:    name,
		Display: registry.DisplayOperator(name),
		Team:    models.DefaultOperatorTeam,
	}
}
