package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header carries the ray id on requests and responses.
	Header = "X-Ray-ID"
	// LocalsKey is the fiber locals key holding the ray id.
	LocalsKey = "ray_id"

	// maxIncomingLen is the longest UUID encoding uuid.Parse accepts (urn form).
	maxIncomingLen = 45
)

// New returns a middleware that assigns a ray id to every request. An
// incoming X-Ray-ID header is reused, in canonical form, only when it is a
// UUID; anything else is replaced.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := uuid.NewString()
		if incoming := c.Get(Header); len(incoming) <= maxIncomingLen {
			if parsed, err := uuid.Parse(incoming); err == nil {
				rid = parsed.String()
			}
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
