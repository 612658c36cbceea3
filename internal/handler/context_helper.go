package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unireg-gateway/internal/middleware"
	"github.com/noah-isme/unireg-gateway/internal/models"
)

func sessionFromContext(c *gin.Context) *models.Session {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	sess, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}
