package auth

import "github.com/gin-gonic/gin"

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserBUCode returns the authenticated user's business unit code or empty string.
func GetUserBUCode(c *gin.Context) string {
	if v, ok := c.Get("userBUCode"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IsAdmin reports whether the authenticated user carries the admin flag.
func IsAdmin(c *gin.Context) bool {
	if v, ok := c.Get("userIsAdmin"); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
