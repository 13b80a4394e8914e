package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	analysis       *AnalysisController
	webhook        *AIWebhookHandler
	metricsHandler http.Handler
}

// NewRouter creates a new router with all handlers. A nil webhook handler
// leaves the webhook route unregistered.
func NewRouter(cfg *config.Config, analysis *AnalysisController, webhook *AIWebhookHandler, metrics http.Handler) *Router {
	return &Router{
		cfg:            cfg,
		analysis:       analysis,
		webhook:        webhook,
		metricsHandler: metrics,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	if rt.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metricsHandler))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAnalysisRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupAnalysisRoutes configures meeting analysis routes
func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	meetings.POST("/:id/analysis", rt.analysis.AnalyzeMeeting)
	meetings.GET("/:id/analysis", rt.analysis.GetLatestReport)
	meetings.POST("/:id/analysis/stored", rt.analysis.AnalyzeStoredTranscript)
	meetings.POST("/:id/analysis/assemblyai", rt.analysis.AnalyzeAssemblyAITranscript)
}

// setupWebhookRoutes configures provider callbacks
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.webhook == nil {
		return
	}
	g.POST("/webhooks/assemblyai", rt.webhook.HandleAssemblyAIWebhook)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
