package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CacheControl sets public cache headers on successful GET responses.
// Used on the book catalog, which changes rarely.
func CacheControl(maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() == "GET" && c.Response().StatusCode() == 200 {
			seconds := strconv.Itoa(int(maxAge.Seconds()))
			c.Set("Cache-Control", "public, max-age="+seconds)
		}

		return err
	}
}

// NoCacheHeaders sets no-cache headers. Loan records and the dashboard
// must never be served stale.
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")
		return c.Next()
	}
}
