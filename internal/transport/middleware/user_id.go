package middleware

import "github.com/gin-gonic/gin"

// UserIDHeader carries the authenticated user identity. The API gateway in
// front of this service strips and re-sets it, so its value is trusted here.
const UserIDHeader = "X-User-ID"

// GetUserID returns the trusted user identity, or "" for anonymous traffic.
func GetUserID(c *gin.Context) string {
	return c.GetHeader(UserIDHeader)
}
