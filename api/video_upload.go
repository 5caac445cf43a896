package api

import (
	"cloudreel/media-api/service"
	"cloudreel/media-api/validators"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoUpload takes a multipart form with a file plus its metadata, pushes
// the payload through the transcoding gateway and stores the resulting
// record. One gateway attempt per request, no retries.
func (a *API) VideoUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "File not found!",
			"requestID": requestID,
		})
		return
	}

	title, err := validators.TitleValidator(c.PostForm("title"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Title can't be empty",
			"requestID": requestID,
		})
		return
	}

	originalSize, err := strconv.ParseInt(c.PostForm("originalSize"), 10, 64)
	if err != nil || originalSize < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "originalSize is not a valid integer",
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.FileValidator(fh, "video")
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err), zap.String("requestID", requestID))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	video, err := a.Uploader.Do(c.Request.Context(), service.UploadRequest{
		File:         f,
		Title:        title,
		Description:  c.PostForm("description"),
		DeclaredSize: originalSize,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Upload image failed!",
			"requestID": requestID,
		})

		zap.L().Error("Upload failed",
			zap.Error(err),
			zap.String("requestID", requestID),
			zap.String("userID", userID),
		)
		return
	}

	c.JSON(http.StatusOK, video)
}
