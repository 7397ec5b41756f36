package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/disasterbio/internal/notify"
	"github.com/your-org/disasterbio/internal/registry"
	"github.com/your-org/disasterbio/internal/report"
	"github.com/your-org/disasterbio/pkg/dto"
)

const maxImportBytes = 32 << 20

const (
	mimeCSV  = "text/csv"
	mimeJSON = "application/json"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportDelays are the simulated durations of the report actions.
type ReportDelays struct {
	PDF               time.Duration
	SendToAuthorities time.Duration
}

// DatabaseHandler serves exports, imports and the simulated report actions.
type DatabaseHandler struct {
	store    *registry.Store
	notifier notify.Notifier
	tasks    *Tasks
	delays   ReportDelays
}

func NewDatabaseHandler(store *registry.Store, n notify.Notifier, tasks *Tasks, d ReportDelays) *DatabaseHandler {
	return &DatabaseHandler{store: store, notifier: n, tasks: tasks, delays: d}
}

func attach(c *gin.Context, name, mime string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, mime, data)
}

func (h *DatabaseHandler) ExportCSV(c *gin.Context) {
	data, err := report.ToCSV(h.store.All())
	if err != nil {
		writeError(c, err)
		return
	}
	notify.Send(c.Request.Context(), h.notifier, notify.LevelSuccess, "export", "CSV report generated successfully!")
	attach(c, report.CSVFileName, mimeCSV, data)
}

func (h *DatabaseHandler) ExportJSON(c *gin.Context) {
	data, err := report.ToJSON(h.store.All())
	if err != nil {
		writeError(c, err)
		return
	}
	notify.Send(c.Request.Context(), h.notifier, notify.LevelSuccess, "export", "Database exported successfully!")
	attach(c, report.JSONFileName, mimeJSON, data)
}

func (h *DatabaseHandler) ExportXLSX(c *gin.Context) {
	data, err := report.ToXLSX(h.store.All())
	if err != nil {
		writeError(c, err)
		return
	}
	notify.Send(c.Request.Context(), h.notifier, notify.LevelSuccess, "export", "Spreadsheet report generated successfully!")
	attach(c, report.XLSXFileName, mimeXLSX, data)
}

// Import replaces the whole registry with the JSON array in the body. A
// rejected import leaves the registry untouched.
func (h *DatabaseHandler) Import(c *gin.Context) {
	ctx := c.Request.Context()
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := report.FromJSON(data)
	var warning string
	if err == nil {
		warning, err = persistWarning(h.store.ReplaceAll(ctx, records))
	}
	if err != nil {
		notify.Send(ctx, h.notifier, notify.LevelError, "import", "Error importing database!")
		writeError(c, err)
		return
	}

	notify.Send(ctx, h.notifier, notify.LevelSuccess, "import", "Database imported successfully!")
	c.JSON(http.StatusOK, dto.ImportResponse{Imported: len(records), Warning: warning})
}

func (h *DatabaseHandler) Clear(c *gin.Context) {
	warning, err := persistWarning(h.store.Clear(c.Request.Context()))
	if err != nil {
		writeError(c, err)
		return
	}
	notify.Send(c.Request.Context(), h.notifier, notify.LevelWarning, "database", "Database cleared successfully!")
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Database cleared successfully!", Warning: warning})
}

func (h *DatabaseHandler) PDFReport(c *gin.Context) {
	h.simulate(c, notify.PDFReport(h.delays.PDF))
}

func (h *DatabaseHandler) SendToAuthorities(c *gin.Context) {
	h.simulate(c, notify.SendToAuthorities(h.delays.SendToAuthorities))
}

func (h *DatabaseHandler) simulate(c *gin.Context, a notify.Action) {
	h.tasks.Go("report", func(ctx context.Context) error {
		return notify.Simulate(ctx, h.notifier, a)
	})
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: a.Pending})
}
