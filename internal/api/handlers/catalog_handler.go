package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sdgmon/portal-go/internal/config"
	"github.com/sdgmon/portal-go/pkg/response"
)

// ListIndicators godoc
// @Summary List the configured indicator catalog
// @Tags indicators
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=[]config.Indicator}
// @Router /indicators [get]
func ListIndicators(c *gin.Context) {
	c.JSON(http.StatusOK, response.SuccessResponse{Data: config.Catalog})
}
