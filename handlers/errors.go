package handlers

import (
	"errors"
	"net/http"

	campaignRepo "campusconnect/database/repository/campaign"
	sessionRepo "campusconnect/database/repository/session"
	"campusconnect/services/campaign"
	"campusconnect/services/donation"
	"campusconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors to a status and a short message. Raw
// errors only reach the log.
func respondError(c *gin.Context, err error) {
	var verr *donation.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, verr.Message, "")
	case errors.Is(err, campaign.ErrInvalidCampaign):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, campaignRepo.ErrCampaignNotFound):
		utils.JSONError(c, http.StatusNotFound, "Campaign not found", "")
	case errors.Is(err, donation.ErrSessionNotFound), errors.Is(err, sessionRepo.ErrSnapshotNotFound):
		utils.JSONError(c, http.StatusNotFound, "Payment session not found or expired", "")
	case errors.Is(err, donation.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "That action is not available at this step", "")
	case errors.Is(err, donation.ErrSessionClosed):
		utils.JSONError(c, http.StatusConflict, "This payment session is already closed", "")
	case errors.Is(err, campaign.ErrNotOrganizer):
		utils.JSONError(c, http.StatusForbidden, "Only the organizer can change this campaign", "")
	case errors.Is(err, campaign.ErrStorageUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "Image uploads are not available right now", "")
	default:
		getLogger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong. Please try again.", "")
	}
}
