package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/notify"
	"github.com/your-org/disasterbio/internal/observability"
	"github.com/your-org/disasterbio/internal/query"
	"github.com/your-org/disasterbio/internal/registry"
	"github.com/your-org/disasterbio/pkg/dto"
)

type VictimHandler struct {
	store      *registry.Store
	notifier   notify.Notifier
	tasks      *Tasks
	printDelay time.Duration
}

func NewVictimHandler(store *registry.Store, n notify.Notifier, tasks *Tasks, printDelay time.Duration) *VictimHandler {
	return &VictimHandler{store: store, notifier: n, tasks: tasks, printDelay: printDelay}
}

func (h *VictimHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, query.BuildDashboard(h.store.All(), models.DefaultTeams))
}

func (h *VictimHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q != "" {
		observability.Searches.Inc()
	}
	victims := query.Search(h.store.All(), q)
	c.JSON(http.StatusOK, dto.VictimListResponse{Victims: victims, Total: len(victims), Query: q})
}

func (h *VictimHandler) Get(c *gin.Context) {
	rec, ok := h.store.Get(c.Param("id"))
	if !ok {
		writeError(c, apperr.Newf(apperr.KindNotFound, "victim %s not found", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *VictimHandler) UpdateNotes(c *gin.Context) {
	var req dto.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.store.UpdateNotes(c.Request.Context(), c.Param("id"), *req.Notes)
	warning, err := persistWarning(err)
	if err != nil {
		writeError(c, err)
		return
	}

	notify.Send(c.Request.Context(), h.notifier, notify.LevelSuccess, rec.ID, "Notes updated successfully!")
	c.JSON(http.StatusOK, dto.VictimResponse{Victim: rec, Warning: warning})
}

// PrintIDCard acknowledges at once; the simulated print reports through
// notifications.
func (h *VictimHandler) PrintIDCard(c *gin.Context) {
	h.print(c, notify.PrintIDCard(c.Param("id"), h.printDelay))
}

func (h *VictimHandler) PrintWristband(c *gin.Context) {
	h.print(c, notify.PrintWristband(c.Param("id"), h.printDelay))
}

func (h *VictimHandler) print(c *gin.Context, a notify.Action) {
	if _, ok := h.store.Get(a.Topic); !ok {
		writeError(c, apperr.Newf(apperr.KindNotFound, "victim %s not found", a.Topic))
		return
	}
	h.tasks.Go("print", func(ctx context.Context) error {
		return notify.Simulate(ctx, h.notifier, a)
	})
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: a.Pending})
}
