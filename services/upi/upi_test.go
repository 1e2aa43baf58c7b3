package upi

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePayeeAddress(t *testing.T) {
	cases := []struct {
		address string
		want    bool
	}{
		{"campusfund@upi", true},
		{"john.doe-99_x@okhdfcbank", true},
		{"ab@ybl", true},
		{"9876543210@upi", false},
		{"1234567890@UPI", false},
		{"testuser@upi", false},
		{"DemoAccount@okaxis", false},
		{"fakepayee@ybl", false},
		{"sample.fund@upi", false},
		{"campusfund@test", false},
		{"campusfund@demo", false},
		{"campusfund@fake", false},
		{"a@upi", false},
		{"campusfund@1upi", false},
		{"campusfund@u", false},
		{"campus fund@upi", false},
		{"campusfund", false},
		{"", false},
		{strings.Repeat("a", 257) + "@upi", false},
		{"campus@" + strings.Repeat("b", 65), false},
	}
	for _, tc := range cases {
		t.Run(tc.address, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidatePayeeAddress(tc.address))
		})
	}
}

func TestBuildPaymentLink(t *testing.T) {
	link, err := BuildPaymentLink("campusfund@upi", "Campus Connect & Friends", 500, "TXN1700000000000abc123", "Library Renovation Drive For Everyone")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(link, "upi://pay?"))
	assert.Equal(t,
		"upi://pay?pa=campusfund@upi&pn=Campus%20Connect%20%26%20Friends&am=500&cu=INR&tn=Donation-abc123",
		link)
	assert.NotContains(t, link, "Library")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "Campus Connect & Friends", q.Get("pn"))
	assert.Equal(t, "500", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "Donation-abc123", q.Get("tn"))
}

func TestBuildPaymentLinkAmountBoundary(t *testing.T) {
	_, err := BuildPaymentLink("campusfund@upi", "Campus", 9, "TXN1", "")
	assert.ErrorIs(t, err, ErrAmountTooSmall)

	_, err = BuildPaymentLink("campusfund@upi", "Campus", 10, "TXN1", "")
	assert.NoError(t, err)
}

func TestBuildPaymentLinkRejectsBadInputs(t *testing.T) {
	_, err := BuildPaymentLink("9876543210@upi", "Campus", 100, "TXN1", "")
	assert.ErrorIs(t, err, ErrInvalidPayee)

	_, err = BuildPaymentLink("campusfund@upi", "Campus", 100, "", "")
	assert.ErrorIs(t, err, ErrMissingTxnID)
}

func TestTransactionNoteUsesShortTail(t *testing.T) {
	assert.Equal(t, "Donation-xyz789", TransactionNote("TXN1700000000000xyz789"))
	assert.Equal(t, "Donation-abc", TransactionNote("abc"))
}

func TestNewTransactionID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := newTransactionID(now)
	assert.True(t, strings.HasPrefix(id, "TXN1700000000123"))
	assert.Len(t, id, len("TXN1700000000123")+6)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		seen[NewTransactionID()] = struct{}{}
	}
	assert.Greater(t, len(seen), 990)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount(" 1000 ")
	require.NoError(t, err)
	assert.Equal(t, 1000, amount)

	_, err = ParseAmount("9")
	assert.ErrorIs(t, err, ErrAmountTooSmall)

	_, err = ParseAmount("ten")
	assert.ErrorIs(t, err, ErrAmountNotNumeric)

	_, err = ParseAmount("12.5")
	assert.ErrorIs(t, err, ErrAmountNotNumeric)

	_, err = ParseAmount("-50")
	assert.ErrorIs(t, err, ErrAmountTooSmall)
}
