package handlers

import (
	"context"
	"errors"
	"net/http"

	"campusconnect/middleware"
	"campusconnect/models"
	"campusconnect/services/donation"
	"campusconnect/utils"

	"github.com/gin-gonic/gin"
)

// SnapshotLoader reads a mirrored session snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context, sessionID string) (*models.PaymentSessionSnapshot, error)
}

// DonationHandler exposes the donation dialog lifecycle.
type DonationHandler struct {
	Manager   *donation.Manager
	Snapshots SnapshotLoader
}

func NewDonationHandler(manager *donation.Manager, snapshots SnapshotLoader) *DonationHandler {
	return &DonationHandler{Manager: manager, Snapshots: snapshots}
}

// OpenSessionHandler opens a donation dialog for a campaign.
func (h *DonationHandler) OpenSessionHandler(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req models.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "campaignId is required", "")
		return
	}

	snap, err := h.Manager.Open(c.Request.Context(), req.CampaignID, identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// GetSessionHandler returns the live session, or its mirrored snapshot once
// this process no longer holds it.
func (h *DonationHandler) GetSessionHandler(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id := c.Param("id")

	s, err := h.Manager.Get(id, identity.UID)
	if err == nil {
		c.JSON(http.StatusOK, s.Snapshot())
		return
	}
	if !errors.Is(err, donation.ErrSessionNotFound) || h.Snapshots == nil {
		respondError(c, err)
		return
	}

	snap, err := h.Snapshots.Load(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if snap.DonorID != identity.UID {
		respondError(c, donation.ErrSessionNotFound)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *DonationHandler) DonateHandler(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req models.DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Please enter an amount", "")
		return
	}

	snap, err := h.Manager.Donate(c.Param("id"), identity.UID, req.AmountText(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *DonationHandler) ConfirmHandler(c *gin.Context) {
	h.transition(c, h.Manager.ConfirmSuccess)
}

func (h *DonationHandler) FailHandler(c *gin.Context) {
	h.transition(c, h.Manager.ReportFailure)
}

func (h *DonationHandler) RetryHandler(c *gin.Context) {
	ua := c.Request.UserAgent()
	h.transition(c, func(id, uid string) (models.PaymentSessionSnapshot, error) {
		return h.Manager.Retry(id, uid, ua)
	})
}

func (h *DonationHandler) ResetHandler(c *gin.Context) {
	h.transition(c, h.Manager.Reset)
}

// CloseHandler is called when the donor dismisses the dialog.
func (h *DonationHandler) CloseHandler(c *gin.Context) {
	h.transition(c, h.Manager.Close)
}

func (h *DonationHandler) transition(c *gin.Context, op func(sessionID, donorID string) (models.PaymentSessionSnapshot, error)) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	snap, err := op(c.Param("id"), identity.UID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func requireIdentity(c *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
	}
	return identity, ok
}
