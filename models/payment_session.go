package models

import (
	"strconv"
	"time"
)

// PaymentStep is the position of a donation dialog in the payment flow.
type PaymentStep string

const (
	StepAmountEntry  PaymentStep = "amount"
	StepProcessing   PaymentStep = "processing"
	StepVerification PaymentStep = "verification"
	StepSuccess      PaymentStep = "success"
	StepFailed       PaymentStep = "failed"
)

// HandoffMode tells the client how to pass the deep-link to the payment app.
type HandoffMode string

const (
	HandoffNavigate  HandoffMode = "navigate"
	HandoffClipboard HandoffMode = "clipboard"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short toast for the donor.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// PaymentSessionSnapshot is the client view of one donation dialog. It is also
// what gets mirrored to the session cache.
type PaymentSessionSnapshot struct {
	SessionID      string         `json:"sessionId"`
	Version        uint64         `json:"version"`
	CampaignID     string         `json:"campaignId"`
	CampaignTitle  string         `json:"campaignTitle"`
	DonorID        string         `json:"donorId"`
	Step           PaymentStep    `json:"step"`
	Amount         int            `json:"amount,omitempty"`
	TransactionID  string         `json:"transactionId,omitempty"`
	PaymentLink    string         `json:"paymentLink,omitempty"`
	Handoff        HandoffMode    `json:"handoff,omitempty"`
	Attempts       int            `json:"attempts"`
	Outcome        PaymentOutcome `json:"outcome,omitempty"`
	Committed      bool           `json:"committed"`
	Closed         bool           `json:"closed"`
	Notices        []Notice       `json:"notices,omitempty"`
	FailureReasons []string       `json:"failureReasons,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// DonateRequest accepts the amount as a JSON number or as the raw text the
// donor typed, so non-numeric input is reported as a validation error rather
// than a bind error.
type DonateRequest struct {
	Amount interface{} `json:"amount" binding:"required"`
}

// AmountText renders Amount for upi.ParseAmount.
func (r DonateRequest) AmountText() string {
	switch v := r.Amount.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

type OpenSessionRequest struct {
	CampaignID string `json:"campaignId" binding:"required"`
}
