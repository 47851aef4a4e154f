package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID returns the authenticated user's ID set by the auth
// middleware. The zero UUID means the request was not authenticated, which
// only happens on routes registered without the middleware.
func currentUserID(c *gin.Context) uuid.UUID {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
