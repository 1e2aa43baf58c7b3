// Package donation drives the UPI donation dialog: amount entry, deep-link
// handoff, a fixed wait, donor self-attestation and the ledger commit.
//
// There is no payment-network callback. The wait is a heuristic and the
// outcome is whatever the donor reports, recorded as models.OutcomeSelfReported.
package donation

import (
	"context"
	"time"

	"campusconnect/models"
	"campusconnect/services/upi"
)

// CampaignReader loads the campaign a dialog is opened for.
type CampaignReader interface {
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
}

// Ledger commits a confirmed donation.
type Ledger interface {
	CommitDonation(ctx context.Context, commit models.DonationCommit) (*models.Donation, error)
}

// CommitNotifier is told about every committed donation. Failures are logged
// and never undo the commit.
type CommitNotifier interface {
	DonationCommitted(ctx context.Context, campaign models.Campaign, donation models.Donation) error
}

// SnapshotStore mirrors session state outside the process.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot models.PaymentSessionSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// Observer receives every session state change in version order, after the
// session lock is released. It must not drive the same session.
type Observer func(models.PaymentSessionSnapshot)

// Payee is who the UPI link pays.
type Payee struct {
	Address string
	Name    string
}

// Options tunes the flow. Zero values fall back to the defaults below.
type Options struct {
	ProcessingDelay time.Duration
	SuccessDelay    time.Duration
	MinAmount       int
	SessionTTL      time.Duration
	CommitTimeout   time.Duration
	DefaultPayee    Payee
	Scheduler       Scheduler
	Now             func() time.Time
}

const (
	DefaultProcessingDelay = 3000 * time.Millisecond
	DefaultSuccessDelay    = 1500 * time.Millisecond
	DefaultSessionTTL      = 30 * time.Minute
	DefaultCommitTimeout   = 10 * time.Second
	maxNotices             = 10
)

func (o Options) withDefaults() Options {
	if o.ProcessingDelay <= 0 {
		o.ProcessingDelay = DefaultProcessingDelay
	}
	if o.SuccessDelay <= 0 {
		o.SuccessDelay = DefaultSuccessDelay
	}
	if o.MinAmount < upi.MinAmount {
		o.MinAmount = upi.MinAmount
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = DefaultSessionTTL
	}
	if o.CommitTimeout <= 0 {
		o.CommitTimeout = DefaultCommitTimeout
	}
	if o.Scheduler == nil {
		o.Scheduler = SystemScheduler
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// FailureReasons is shown on the Failed step. The flow cannot know the real
// cause, so the donor gets the common ones.
var FailureReasons = []string{
	"Insufficient balance in your bank account",
	"UPI app not responding or closed before completing",
	"Network connectivity issues",
	"Payment cancelled in the UPI app",
	"Daily transaction limit exceeded",
}
