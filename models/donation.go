package models

import "time"

// PaymentOutcome records how a payment result was determined. UPI handoffs have
// no callback, so every donation today is SelfReported.
type PaymentOutcome string

const (
	OutcomeSelfReported PaymentOutcome = "self_reported"
	// OutcomeNetworkConfirmed is reserved for a future bank/PSP callback.
	OutcomeNetworkConfirmed PaymentOutcome = "network_confirmed"
)

const PaymentMethodUPI = "upi"

// Donation is one committed payment in campaigns/{id}/donations. Never mutated.
type Donation struct {
	ID            string         `json:"id" firestore:"-" bson:"_id"`
	CampaignID    string         `json:"campaignId" firestore:"-" bson:"campaignId"`
	DonorID       string         `json:"donorId" firestore:"donorId" bson:"donorId"`
	DonorName     string         `json:"donorName" firestore:"donorName" bson:"donorName"`
	Amount        int64          `json:"amount" firestore:"amount" bson:"amount"`
	Timestamp     time.Time      `json:"timestamp" firestore:"timestamp,serverTimestamp" bson:"timestamp"`
	Message       string         `json:"message,omitempty" firestore:"message,omitempty" bson:"message,omitempty"`
	PaymentMethod string         `json:"paymentMethod" firestore:"paymentMethod" bson:"paymentMethod"`
	TransactionID string         `json:"transactionId,omitempty" firestore:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Outcome       PaymentOutcome `json:"outcome" firestore:"outcome" bson:"outcome"`
}

// DonationCommit is what the payment flow hands to the ledger.
type DonationCommit struct {
	CampaignID    string
	Amount        int64
	DonorID       string
	DonorName     string
	Message       string
	TransactionID string
	Outcome       PaymentOutcome
}
