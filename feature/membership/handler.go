package membership

import (
	"sgsync/core/cluster"
	"sgsync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the membership view.
type Handler struct {
	registry Registry
	identity cluster.IdentitySource
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(registry Registry, identity cluster.IdentitySource, logger *zap.Logger) *Handler {
	return &Handler{registry: registry, identity: identity, logger: logger}
}

// RegisterRoutes registers the membership routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/membership")
	group.Get("/", h.HandleList)
}

// HandleList returns the members of the configured application.
// ?region=<name> narrows the list to one region.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	appID := h.identity.Identity().AppName

	members, err := h.registry.ListMembers(c.Context(), appID)
	if err != nil {
		l.Error("Membership listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if region := c.Query("region"); region != "" {
		filtered := []Member{}
		for _, m := range members {
			if m.Region == region {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}

	return c.JSON(fiber.Map{
		"app_id":  appID,
		"count":   len(members),
		"members": members,
	})
}
