package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the acting operator's ID in the Gin context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// OperatorIDMiddleware reads the acting operator's ID from the X-User-ID
// header and stores it in the Gin context. Requests without the header pass
// through; handlers that require an operator reject them.
func OperatorIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(string(userIDKey), userID)
		}
		c.Next()
	}
}

// GetUserIDFromContext retrieves the acting operator's ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			return userIDVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}
