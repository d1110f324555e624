package security

import (
	"sgsync/core/logger"
	"sgsync/core/scheduler"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the security reconciler.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the security routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/security")
	group.Get("/", h.HandleStatus)
	group.Post("/reconcile", h.HandleReconcile)
}

// HandleStatus returns the schedule and the last applied pass.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleReconcile runs a pass now. With ?dry_run=true the plan is computed
// but nothing is applied.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run", false)

	var (
		run *Run
		err error
	)
	if dryRun {
		run, err = h.service.DryRun(c.Context(), scheduler.Running)
	} else {
		l.Info("Manual reconciliation requested")
		run, err = h.service.Reconcile(c.Context())
	}

	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err), zap.Bool("dry_run", dryRun))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"run":   run,
		})
	}
	return c.JSON(run)
}
