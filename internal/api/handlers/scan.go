package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/disasterbio/internal/match"
	"github.com/your-org/disasterbio/internal/notify"
	"github.com/your-org/disasterbio/internal/observability"
	"github.com/your-org/disasterbio/internal/registry"
	"github.com/your-org/disasterbio/pkg/dto"
)

// Publisher receives scan progress for connected consoles.
type Publisher interface {
	Publish(msg dto.WSMessage)
}

// ScanDelays are the simulated durations of a biometric search.
type ScanDelays struct {
	Fingerprint time.Duration
	Face        time.Duration
	Tick        time.Duration
}

// For returns the configured delay for m, or the mode's default when unset.
func (d ScanDelays) For(m match.Mode) time.Duration {
	v := d.Fingerprint
	if m == match.ModeFace {
		v = d.Face
	}
	if v == 0 {
		return match.ScanDelay(m)
	}
	return v
}

type ScanHandler struct {
	store     *registry.Store
	sim       match.Simulator
	notifier  notify.Notifier
	publisher Publisher
	delays    ScanDelays
}

func NewScanHandler(store *registry.Store, sim match.Simulator, n notify.Notifier, p Publisher, d ScanDelays) *ScanHandler {
	return &ScanHandler{store: store, sim: sim, notifier: n, publisher: p, delays: d}
}

// Scan runs a simulated biometric search against the whole registry. The
// request blocks for the scan delay; progress goes out over the hub.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := match.ParseMode(req.Mode)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	observability.Scans.WithLabelValues(string(mode)).Inc()
	notify.Send(ctx, h.notifier, notify.LevelInfo, "scan", mode.PendingMessage())

	opts := match.RunOptions{Delay: h.delays.For(mode), Tick: h.delays.Tick}
	if h.publisher != nil {
		opts.OnProgress = func(p float64) {
			h.publisher.Publish(dto.WSMessage{
				Type:  dto.WSTypeScanProgress,
				Topic: "scan",
				Data:  dto.ScanProgress{Mode: string(mode), Percent: p},
			})
		}
	}

	res, err := match.Run(ctx, h.sim, mode, h.store.All(), opts)
	if err != nil {
		writeError(c, err)
		return
	}

	notify.Send(ctx, h.notifier, notify.LevelSuccess, "scan", res.Message())
	c.JSON(http.StatusOK, dto.ScanResponse{
		Victim:     res.Record,
		Confidence: res.Confidence,
		Band:       string(res.Band),
		Mode:       string(res.Mode),
		Message:    res.Message(),
	})
}
