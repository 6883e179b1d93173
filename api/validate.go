package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/banachtech/phoenix/termsheet"
)

type validateRequest struct {
	Product termsheet.Document `json:"product" binding:"required"`
}

// validateDocument reports whether an extracted document is evaluable
// without evaluating it.
func (server *Server) validateDocument(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	report := termsheet.Validate(req.Product)
	c.JSON(http.StatusOK, gin.H{"valid": report.Valid(), "report": report})
}
