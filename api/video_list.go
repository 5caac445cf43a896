package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoList returns every stored video record ordered newest first. The
// whole table is re-read on every call, there is no pagination or caching.
// Publicly reachable without a session.
func (a *API) VideoList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	videos, err := a.Videos.ListNewestFirst(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Error fetching videos",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list videos", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, videos)
}
