package handlers

import (
	"net/http"
	"strings"

	"campusconnect/middleware"
	"campusconnect/utils"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 5 << 20

// UploadCampaignImageHandler accepts a multipart "image" field and replaces
// the campaign image.
func (h *CampaignHandler) UploadCampaignImageHandler(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Image file not provided", "")
		return
	}
	if fileHeader.Size > maxImageBytes {
		utils.JSONError(c, http.StatusBadRequest, "Image must be 5MB or smaller", "")
		return
	}
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		utils.JSONError(c, http.StatusBadRequest, "Only image uploads are allowed", "")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read image", "")
		return
	}
	defer file.Close()

	url, err := h.Svc.UploadImage(c.Request.Context(), c.Param("id"), identity.UID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
