package handlers

import (
	"net/http"
	"strconv"

	"campusconnect/middleware"
	"campusconnect/models"
	"campusconnect/services/campaign"
	"campusconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CampaignHandler serves the campaign feed and campaign detail endpoints.
type CampaignHandler struct {
	Svc campaign.CampaignService
}

func NewCampaignHandler(svc campaign.CampaignService) *CampaignHandler {
	return &CampaignHandler{Svc: svc}
}

func (h *CampaignHandler) ListCampaignsHandler(c *gin.Context) {
	list, err := h.Svc.ListCampaigns(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": list})
}

func (h *CampaignHandler) GetCampaignHandler(c *gin.Context) {
	camp, err := h.Svc.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, camp)
}

func (h *CampaignHandler) ListDonationsHandler(c *gin.Context) {
	list, err := h.Svc.ListDonations(c.Request.Context(), c.Param("id"), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": list})
}

func (h *CampaignHandler) CreateCampaignHandler(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("campaign request failed to bind", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid campaign details", "")
		return
	}

	camp, err := h.Svc.CreateCampaign(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, camp)
}

func (h *CampaignHandler) ToggleLikeHandler(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	res, err := h.Svc.ToggleLike(c.Request.Context(), c.Param("id"), identity.UID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		return 0
	}
	return limit
}
