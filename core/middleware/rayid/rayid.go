package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header echoes the id back to the caller.
	Header = "X-Ray-ID"
	// LocalKey stores the id in the request locals.
	LocalKey = "ray_id"
)

// New returns a middleware giving every request an id. A caller supplied id
// is kept so requests can be traced across services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}
