package models

// DonationReceivedPayload is queued after a donation commits so the organizer
// gets a push notification.
type DonationReceivedPayload struct {
	CampaignID    string `json:"campaignId"`
	CampaignTitle string `json:"campaignTitle"`
	OrganizerID   string `json:"organizerId"`
	DonorName     string `json:"donorName"`
	Amount        int64  `json:"amount"`
}
