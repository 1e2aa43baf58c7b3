package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MeHandler returns the signed-in identity.
func MeHandler(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, identity)
}
