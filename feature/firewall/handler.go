package firewall

import (
	"sgsync/core/cluster"
	"sgsync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for firewall inspection.
type Handler struct {
	provider Provider
	identity cluster.IdentitySource
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(provider Provider, identity cluster.IdentitySource, logger *zap.Logger) *Handler {
	return &Handler{provider: provider, identity: identity, logger: logger}
}

// RegisterRoutes registers the firewall routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/firewall")
	group.Get("/", h.HandleList)
}

// HandleList returns the ranges permitted on the storage port interval.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id := h.identity.Identity()
	ports := PortRange{From: id.StoragePort, To: id.SSLStoragePort}

	ranges, err := h.provider.List(c.Context(), ports)
	if err != nil {
		l.Error("Firewall listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"from_port": ports.From,
		"to_port":   ports.To,
		"count":     len(ranges),
		"ranges":    ranges,
	})
}
