package middleware

import "github.com/gin-gonic/gin"

// operatorIDKey is the key used to store the acting operator's ID in the Gin
// context. Using a custom type prevents collisions.
const operatorIDKey = contextKey("operatorID")

// systemOperator is recorded on audit fields when no operator header is sent.
const systemOperator = "system"

// OperatorIDMiddleware resolves the acting operator from the X-Operator-ID
// header and stores it in the context for audit stamping. Requests without
// the header act as the system operator.
func OperatorIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.GetHeader("X-Operator-ID")
		if operatorID == "" {
			operatorID = systemOperator
		}
		c.Set(string(operatorIDKey), operatorID)
		c.Next()
	}
}

// GetOperatorIDFromContext retrieves the acting operator ID from the Gin
// context, falling back to the system operator.
func GetOperatorIDFromContext(c *gin.Context) string {
	val, exists := c.Get(string(operatorIDKey))
	if !exists {
		return systemOperator
	}
	operatorID, ok := val.(string)
	if !ok || operatorID == "" {
		return systemOperator
	}
	return operatorID
}
