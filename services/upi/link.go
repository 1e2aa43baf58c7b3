// Package upi builds UPI payment deep-links and validates their inputs.
package upi

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	Scheme   = "upi://pay"
	Currency = "INR"

	// MinAmount is the smallest donation in whole rupees.
	MinAmount = 10

	notePrefix  = "Donation-"
	noteIDChars = 6
)

var (
	ErrAmountTooSmall = fmt.Errorf("amount must be at least ₹%d", MinAmount)
	ErrInvalidPayee   = errors.New("invalid UPI payee address")
	ErrMissingTxnID   = errors.New("transaction id is required")
)

// BuildPaymentLink returns a upi://pay link for a single donation.
//
// The transaction note only carries the tail of the transaction id. Long or
// templated notes (campaign titles included) get flagged by the payment
// network's risk filters, so the campaign title argument never reaches the link.
func BuildPaymentLink(payeeAddress, payeeName string, amount int, transactionID, _ string) (string, error) {
	if amount < MinAmount {
		return "", ErrAmountTooSmall
	}
	if !ValidatePayeeAddress(payeeAddress) {
		return "", ErrInvalidPayee
	}
	if transactionID == "" {
		return "", ErrMissingTxnID
	}

	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString("?pa=")
	b.WriteString(payeeAddress)
	b.WriteString("&pn=")
	b.WriteString(encodeComponent(payeeName))
	b.WriteString("&am=")
	b.WriteString(strconv.Itoa(amount))
	b.WriteString("&cu=")
	b.WriteString(Currency)
	b.WriteString("&tn=")
	b.WriteString(encodeComponent(TransactionNote(transactionID)))
	return b.String(), nil
}

// TransactionNote is the short note sent with the payment.
func TransactionNote(transactionID string) string {
	tail := transactionID
	if len(tail) > noteIDChars {
		tail = tail[len(tail)-noteIDChars:]
	}
	return notePrefix + tail
}

// encodeComponent percent-encodes like a URI component: spaces become %20, not '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
