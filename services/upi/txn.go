package upi

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const txnSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTransactionID returns a time-based id with a random suffix. Uniqueness is
// assumed, not checked against any server.
func NewTransactionID() string {
	return newTransactionID(time.Now())
}

func newTransactionID(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = txnSuffixAlphabet[rand.IntN(len(txnSuffixAlphabet))]
	}
	return "TXN" + strconv.FormatInt(now.UnixMilli(), 10) + string(suffix)
}
