package api

import (
	"cloudreel/media-api/cloudinary"
	"cloudreel/media-api/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ImageUpload pushes a single image through the gateway and hands the
// resulting public ID back to the caller. Unlike videos no database record
// is kept, the ID alone is enough to derive any display URL later.
func (a *API) ImageUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "File not found!",
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.FileValidator(fh, "image")
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err), zap.String("requestID", requestID))
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	res, err := a.Gateway.Upload(c.Request.Context(), f, cloudinary.UploadOptions{
		ResourceType: "image",
		Folder:       viper.GetString("cloudinary.image_folder"),
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Upload image failed!",
			"requestID": requestID,
		})

		zap.L().Error("Image upload failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publicId": res.PublicID,
	})
}
