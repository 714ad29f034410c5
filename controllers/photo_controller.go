package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/almasria/workshop-scheduler/config"
	"github.com/almasria/workshop-scheduler/models"
	"github.com/almasria/workshop-scheduler/services"
	"github.com/almasria/workshop-scheduler/utils"
)

// loadDetail reads the order detail addressed by the route, answering the
// error response itself when the detail cannot be served
func loadDetail(c *gin.Context) (*models.OrderDetail, bool) {
	detailID, err := strconv.ParseUint(c.Param("detailID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid detail id",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var detail models.OrderDetail
	if err := db.First(&detail, uint(detailID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DETAIL_NOT_FOUND",
				"message": "Order detail not found",
			},
		})
		return nil, false
	}

	return &detail, true
}

// AttachPhoto handles POST /api/v1/orders/:id/details/:detailID/photos -
// uploads a production photo and records its key on the order detail
func AttachPhoto(c *gin.Context) {
	detail, ok := loadDetail(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A photo file is required",
			},
		})
		return
	}

	key, err := services.GetPhotoService().UploadPhoto(fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload photo",
			},
		})
		return
	}

	detail.ImageKeys = append(detail.ImageKeys, key)
	if err := config.GetDB().Model(detail).Update("image_keys", detail.ImageKeys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record photo on order detail",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"photo_key":  key,
			"image_keys": detail.ImageKeys,
		},
	})
}

// ListPhotos handles GET /api/v1/orders/:id/details/:detailID/photos -
// resolves viewable URLs for the detail's production photos
func ListPhotos(c *gin.Context) {
	detail, ok := loadDetail(c)
	if !ok {
		return
	}

	photos := []gin.H{}
	for _, key := range detail.ImageKeys {
		url, err := services.GetPhotoService().GetPhotoURL(key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": "Failed to generate photo URL",
				},
			})
			return
		}
		photos = append(photos, gin.H{"key": key, "url": url})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    photos,
	})
}

// DetachPhoto handles DELETE /api/v1/orders/:id/details/:detailID/photos -
// removes the photo named by the "key" query parameter from storage and
// from the detail's photo list
func DetachPhoto(c *gin.Context) {
	detail, ok := loadDetail(c)
	if !ok {
		return
	}

	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A photo key is required",
			},
		})
		return
	}

	remaining := []string{}
	found := false
	for _, existing := range detail.ImageKeys {
		if existing == key {
			found = true
			continue
		}
		remaining = append(remaining, existing)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PHOTO_NOT_FOUND",
				"message": "Photo not attached to this order detail",
			},
		})
		return
	}

	if err := services.GetPhotoService().DeletePhoto(key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to delete photo",
			},
		})
		return
	}

	if err := config.GetDB().Model(detail).Update("image_keys", remaining).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order detail",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"image_keys": remaining,
		},
	})
}
