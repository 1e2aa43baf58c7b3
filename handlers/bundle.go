package handlers

import (
	"campusconnect/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Verifier          middleware.TokenVerifier
	MaxRequestsPerMin int

	// Campaign endpoints
	ListCampaignsHandler       gin.HandlerFunc
	GetCampaignHandler         gin.HandlerFunc
	ListDonationsHandler       gin.HandlerFunc
	CreateCampaignHandler      gin.HandlerFunc
	ToggleLikeHandler          gin.HandlerFunc
	UploadCampaignImageHandler gin.HandlerFunc

	// Donation session endpoints
	OpenSessionHandler  gin.HandlerFunc
	GetSessionHandler   gin.HandlerFunc
	DonateHandler       gin.HandlerFunc
	ConfirmHandler      gin.HandlerFunc
	FailHandler         gin.HandlerFunc
	RetryHandler        gin.HandlerFunc
	ResetHandler        gin.HandlerFunc
	CloseSessionHandler gin.HandlerFunc

	// User endpoints
	MeHandler gin.HandlerFunc
}

// NewHandlerBundle wires the campaign and donation handlers.
func NewHandlerBundle(verifier middleware.TokenVerifier, maxPerMin int, ch *CampaignHandler, dh *DonationHandler) *HandlerBundle {
	return &HandlerBundle{
		Verifier:          verifier,
		MaxRequestsPerMin: maxPerMin,

		ListCampaignsHandler:       ch.ListCampaignsHandler,
		GetCampaignHandler:         ch.GetCampaignHandler,
		ListDonationsHandler:       ch.ListDonationsHandler,
		CreateCampaignHandler:      ch.CreateCampaignHandler,
		ToggleLikeHandler:          ch.ToggleLikeHandler,
		UploadCampaignImageHandler: ch.UploadCampaignImageHandler,

		OpenSessionHandler:  dh.OpenSessionHandler,
		GetSessionHandler:   dh.GetSessionHandler,
		DonateHandler:       dh.DonateHandler,
		ConfirmHandler:      dh.ConfirmHandler,
		FailHandler:         dh.FailHandler,
		RetryHandler:        dh.RetryHandler,
		ResetHandler:        dh.ResetHandler,
		CloseSessionHandler: dh.CloseHandler,

		MeHandler: MeHandler,
	}
}
