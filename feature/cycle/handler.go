package cycle

import (
	"context"
	"errors"

	"stock-sync/core/logger"
	"stock-sync/core/metrics"
	"stock-sync/feature/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Status is the body of GET /status.
type Status struct {
	State           string          `json:"state"`
	DryRun          bool            `json:"dry_run"`
	IntervalSeconds int             `json:"interval_seconds"`
	Last            *report.Summary `json:"last,omitempty"`
}

// Handler handles HTTP requests for cycles.
type Handler struct {
	service *Service
	metrics *metrics.Registry
	// base outlives requests; triggered cycles run under it.
	base context.Context
}

// NewHandler creates a new HTTP handler.
func NewHandler(base context.Context, service *Service, m *metrics.Registry) *Handler {
	return &Handler{service: service, metrics: m, base: base}
}

// RegisterRoutes registers the cycle routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	app.Get("/status", h.HandleStatus)
	app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))

	app.Get("/cycles/latest", h.HandleLatest)
	app.Post("/cycles", h.HandleTrigger)
}

// HandleHealth reports liveness.
// @Summary Health
// @Tags cycles
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleStatus reports whether a cycle runs and how the last one ended.
// @Summary Sync Status
// @Description Returns the scheduler state and the summary of the last cycle.
// @Tags cycles
// @Produce json
// @Success 200 {object} Status
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	cfg := h.service.Config()
	st := Status{
		State:           "idle",
		DryRun:          cfg.DryRun,
		IntervalSeconds: int(cfg.IntervalDuration().Seconds()),
	}
	if h.service.Running() {
		st.State = "running"
	}
	if last, ok := h.service.Latest(); ok {
		summary := report.NewSummary(last)
		st.Last = &summary
	}
	return c.JSON(st)
}

// HandleLatest returns the full report of the last cycle.
// @Summary Latest Cycle
// @Tags cycles
// @Produce json
// @Success 200 {object} report.Report
// @Failure 404 {object} map[string]string "No cycle has finished yet"
// @Router /cycles/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	last, ok := h.service.Latest()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no cycle has finished yet"})
	}
	return c.JSON(last)
}

// HandleTrigger starts a cycle now.
// @Summary Trigger Cycle
// @Description Starts a reconciliation cycle in the background.
// @Tags cycles
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 409 {object} map[string]string "A cycle is already running"
// @Router /cycles [post]
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	err := h.service.Trigger(h.base)
	if errors.Is(err, ErrCycleInProgress) {
		l.Info("Cycle trigger rejected, cycle in progress")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Cycle triggered")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}
