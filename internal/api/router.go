// Package api wires the HTTP surface of the registry.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/disasterbio/internal/api/handlers"
	"github.com/your-org/disasterbio/internal/api/ws"
	"github.com/your-org/disasterbio/internal/auth"
	"github.com/your-org/disasterbio/internal/config"
	"github.com/your-org/disasterbio/internal/intake"
	"github.com/your-org/disasterbio/internal/match"
	"github.com/your-org/disasterbio/internal/offline"
	"github.com/your-org/disasterbio/internal/registry"
)

type RouterConfig struct {
	APIKey     string
	Simulation config.SimulationConfig
	Store      *registry.Store
	Settings   *registry.Settings
	Sessions   *intake.Sessions
	Simulator  match.Simulator
	Syncer     *offline.Syncer
	// Offline is nil when registrations are not queued for upload.
	Offline *offline.Queue
	Hub     *ws.Hub
	Tasks   *handlers.Tasks
	Checks  map[string]handlers.Pinger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.New(corsConfig()))

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.Checks)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))
	v1.Use(auth.OperatorMiddleware(cfg.Settings.OperatorName))

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	sim := cfg.Simulation

	// Records
	victimH := handlers.NewVictimHandler(cfg.Store, cfg.Hub, cfg.Tasks, sim.Print)
	v1.GET("/dashboard", victimH.Dashboard)
	v1.GET("/victims", victimH.Search)
	v1.GET("/victims/:id", victimH.Get)
	v1.PUT("/victims/:id/notes", victimH.UpdateNotes)
	v1.POST("/victims/:id/id-card", victimH.PrintIDCard)
	v1.POST("/victims/:id/wristband", victimH.PrintWristband)

	// Registration sessions
	sessionH := handlers.NewSessionHandler(cfg.Sessions, cfg.Store, cfg.Offline)
	v1.POST("/sessions", sessionH.Open)
	v1.GET("/sessions/:id", sessionH.Get)
	v1.PUT("/sessions/:id/fields", sessionH.SetFields)
	v1.POST("/sessions/:id/fingerprint", sessionH.CaptureFingerprint)
	v1.POST("/sessions/:id/photo", sessionH.CapturePhoto)
	v1.POST("/sessions/:id/submit", sessionH.Submit)
	v1.DELETE("/sessions/:id", sessionH.Close)

	// Biometric search
	scanH := handlers.NewScanHandler(cfg.Store, cfg.Simulator, cfg.Hub, cfg.Hub, handlers.ScanDelays{
		Fingerprint: sim.FingerprintScan,
		Face:        sim.FaceScan,
		Tick:        sim.ProgressTick,
	})
	v1.POST("/scan", scanH.Scan)

	// Database and reports
	dbH := handlers.NewDatabaseHandler(cfg.Store, cfg.Hub, cfg.Tasks, handlers.ReportDelays{
		PDF:               sim.Report,
		SendToAuthorities: sim.SendToAuthorities,
	})
	v1.GET("/export/csv", dbH.ExportCSV)
	v1.GET("/export/json", dbH.ExportJSON)
	v1.GET("/export/xlsx", dbH.ExportXLSX)
	v1.POST("/import", dbH.Import)
	v1.DELETE("/victims", dbH.Clear)
	v1.POST("/reports/pdf", dbH.PDFReport)
	v1.POST("/reports/send", dbH.SendToAuthorities)

	// Sync and operator
	syncH := handlers.NewSyncHandler(cfg.Syncer, cfg.Settings)
	v1.POST("/sync", syncH.Sync)
	v1.GET("/sync", syncH.Status)
	v1.GET("/operator", syncH.GetOperator)
	v1.PUT("/operator", syncH.SetOperator)

	return r
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowHeaders = append(c.AllowHeaders, "X-API-Key", "X-Operator-Name")
	c.ExposeHeaders = []string{"Content-Disposition"}
	return c
}
