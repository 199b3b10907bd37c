package handlers

import "github.com/labstack/echo/v4"

// userIDFromContext returns the authenticated uid set by the auth middleware,
// or "" when the request is unauthenticated.
func userIDFromContext(c echo.Context) string {
	uid, _ := c.Get("firebaseUID").(string)
	return uid
}
