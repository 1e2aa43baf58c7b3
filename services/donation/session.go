package donation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campusconnect/models"
	"campusconnect/services/upi"

	"go.uber.org/zap"
)

// sessionDeps is shared by every session a Manager opens.
type sessionDeps struct {
	opts     Options
	ledger   Ledger
	notifier CommitNotifier
	logger   *zap.Logger
	publish  func(models.PaymentSessionSnapshot)
	closed   func(sessionID string)
	inflight *sync.WaitGroup
}

// Session is one donation dialog. All transitions and timer callbacks
// serialize on mu; at most one timer is live and gen invalidates stale ones.
type Session struct {
	mu sync.Mutex

	id       string
	campaign models.Campaign
	donor    models.Identity
	payee    Payee
	deps     *sessionDeps

	step     models.PaymentStep
	amount   int
	txnID    string
	link     string
	handoff  models.HandoffMode
	attempts int
	outcome  models.PaymentOutcome

	commitIssued bool
	committed    bool
	closed       bool
	notices      []models.Notice

	timer Timer
	gen   uint64

	// version increases with every state change; pubMu and published keep
	// publishing in version order.
	version   uint64
	pubMu     sync.Mutex
	published uint64

	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(id string, campaign models.Campaign, donor models.Identity, deps *sessionDeps) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:       id,
		campaign: campaign,
		donor:    donor,
		deps:     deps,
		step:     models.StepAmountEntry,
		version:  1,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.payee = resolvePayee(campaign, deps.opts.DefaultPayee)
	return s
}

// resolvePayee pays the campaign's own UPI id when it has one.
func resolvePayee(c models.Campaign, fallback Payee) Payee {
	if c.UPIID == "" {
		return fallback
	}
	name := c.CreatorName
	if name == "" {
		name = fallback.Name
	}
	return Payee{Address: c.UPIID, Name: name}
}

func (s *Session) ID() string { return s.id }

// Donate validates the entered amount and hands off to the payment app.
// AmountEntry -> Processing.
func (s *Session) Donate(amountText, userAgent string) (models.PaymentSessionSnapshot, error) {
	s.mu.Lock()
	if err := s.requireStepLocked(models.StepAmountEntry); err != nil {
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, err
	}

	amount, err := upi.ParseAmount(amountText)
	if err == nil && amount < s.deps.opts.MinAmount {
		err = upi.ErrAmountTooSmall
	}
	if err != nil {
		msg := "Please enter a valid amount in whole rupees"
		if errors.Is(err, upi.ErrAmountTooSmall) {
			msg = fmt.Sprintf("Minimum donation amount is ₹%d", s.deps.opts.MinAmount)
		}
		s.noticeLocked(models.NoticeError, msg)
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, invalid(msg, err)
	}
	if !upi.ValidatePayeeAddress(s.payee.Address) {
		msg := "This campaign cannot accept UPI payments right now. Please contact the organizer."
		s.noticeLocked(models.NoticeError, msg)
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, invalid(msg, upi.ErrInvalidPayee)
	}

	s.amount = amount
	if err := s.handoffLocked(userAgent); err != nil {
		s.amount = 0
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, err
	}
	snap := s.nextSnapshotLocked()
	s.mu.Unlock()

	s.deps.logger.Info("donation handoff started",
		zap.String("sessionId", s.id),
		zap.String("campaignId", s.campaign.ID),
		zap.Int("amount", amount),
		zap.String("transactionId", snap.TransactionID),
		zap.String("handoff", string(snap.Handoff)),
	)
	s.emit(snap)
	return snap, nil
}

// ConfirmSuccess records the donor's "yes, payment successful".
// Verification -> Success; the ledger commit follows after SuccessDelay.
func (s *Session) ConfirmSuccess() (models.PaymentSessionSnapshot, error) {
	s.mu.Lock()
	if err := s.requireStepLocked(models.StepVerification); err != nil {
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, err
	}
	s.clearTimerLocked()
	s.step = models.StepSuccess
	s.outcome = models.OutcomeSelfReported
	s.noticeLocked(models.NoticeSuccess, fmt.Sprintf("Thank you! Recording your donation of ₹%d...", s.amount))
	s.armLocked(s.deps.opts.SuccessDelay, s.onSuccessDelayElapsed)
	snap := s.nextSnapshotLocked()
	s.mu.Unlock()

	s.emit(snap)
	return snap, nil
}

// ReportFailure records the donor's "no, payment failed". Verification -> Failed.
func (s *Session) ReportFailure() (models.PaymentSessionSnapshot, error) {
	s.mu.Lock()
	if err := s.requireStepLocked(models.StepVerification); err != nil {
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, err
	}
	s.clearTimerLocked()
	s.step = models.StepFailed
	s.noticeLocked(models.NoticeError, "Payment was not completed")
	snap := s.nextSnapshotLocked()
	s.mu.Unlock()

	s.deps.logger.Info("donation reported failed",
		zap.String("sessionId", s.id),
		zap.String("transactionId", snap.TransactionID),
		zap.Int("attempt", snap.Attempts),
	)
	s.emit(snap)
	return snap, nil
}

// Retry hands off again with the same amount and a new transaction id.
// Failed -> Processing.
func (s *Session) Retry(userAgent string) (models.PaymentSessionSnapshot, error) {
	s.mu.Lock()
	if err := s.requireStepLocked(models.StepFailed); err != nil {
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, err
	}
	if err := s.handoffLocked(userAgent); err != nil {
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, err
	}
	snap := s.nextSnapshotLocked()
	s.mu.Unlock()

	s.emit(snap)
	return snap, nil
}

// Reset abandons the attempt so a new amount can be entered. Failed -> AmountEntry.
func (s *Session) Reset() (models.PaymentSessionSnapshot, error) {
	s.mu.Lock()
	if err := s.requireStepLocked(models.StepFailed); err != nil {
		s.mu.Unlock()
		return models.PaymentSessionSnapshot{}, err
	}
	s.clearTimerLocked()
	s.resetLocked()
	snap := s.nextSnapshotLocked()
	s.mu.Unlock()

	s.emit(snap)
	return snap, nil
}

// Close discards the session from any step. A commit already issued still
// completes; anything earlier never reaches the ledger. Close is idempotent.
func (s *Session) Close() models.PaymentSessionSnapshot {
	s.mu.Lock()
	if s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.clearTimerLocked()
	s.closed = true
	s.cancel()
	snap := s.nextSnapshotLocked()
	s.mu.Unlock()

	s.deps.closed(s.id)
	s.emit(snap)
	return snap
}

// Snapshot returns the current client view.
func (s *Session) Snapshot() models.PaymentSessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// HasPendingTimer reports whether a timer is armed.
func (s *Session) HasPendingTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Session) requireStepLocked(step models.PaymentStep) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.step != step {
		return fmt.Errorf("%w: in %s, need %s", ErrInvalidTransition, s.step, step)
	}
	return nil
}

// handoffLocked builds a fresh link for s.amount and arms the processing timer.
func (s *Session) handoffLocked(userAgent string) error {
	txnID := upi.NewTransactionID()
	link, err := upi.BuildPaymentLink(s.payee.Address, s.payee.Name, s.amount, txnID, s.campaign.Title)
	if err != nil {
		msg := "Could not prepare the UPI payment. Please try again."
		s.noticeLocked(models.NoticeError, msg)
		return invalid(msg, err)
	}

	s.txnID = txnID
	s.link = link
	s.handoff = DetectHandoff(userAgent)
	s.attempts++
	s.step = models.StepProcessing
	if s.handoff == models.HandoffNavigate {
		s.noticeLocked(models.NoticeInfo, "Opening your UPI app...")
	} else {
		s.noticeLocked(models.NoticeInfo, "UPI link copied. Open it on a phone with a UPI app to pay.")
	}
	s.armLocked(s.deps.opts.ProcessingDelay, s.onProcessingElapsed)
	return nil
}

// onProcessingElapsed is the fixed-delay move to Verification. Nothing has
// been confirmed; the donor is simply asked.
func (s *Session) onProcessingElapsed(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.closed || s.step != models.StepProcessing {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.step = models.StepVerification
	s.noticeLocked(models.NoticeInfo, "Did your payment go through?")
	snap := s.nextSnapshotLocked()
	s.mu.Unlock()

	s.emit(snap)
}

func (s *Session) onSuccessDelayElapsed(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.closed || s.step != models.StepSuccess || s.commitIssued {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.commitIssued = true
	s.deps.inflight.Add(1)
	commit := models.DonationCommit{
		CampaignID:    s.campaign.ID,
		Amount:        int64(s.amount),
		DonorID:       s.donor.UID,
		DonorName:     s.donor.Name(),
		TransactionID: s.txnID,
		Outcome:       s.outcome,
	}
	s.mu.Unlock()
	defer s.deps.inflight.Done()

	// Once issued, closing the dialog must not abort the write.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), s.deps.opts.CommitTimeout)
	defer cancel()
	donation, err := s.deps.ledger.CommitDonation(ctx, commit)

	s.mu.Lock()
	if err != nil {
		s.deps.logger.Error("failed to commit donation",
			zap.String("sessionId", s.id),
			zap.String("campaignId", commit.CampaignID),
			zap.String("transactionId", commit.TransactionID),
			zap.Int64("amount", commit.Amount),
			zap.Error(err),
		)
		s.noticeLocked(models.NoticeError, "We couldn't record your donation. Please try again later.")
	} else {
		s.committed = true
		s.noticeLocked(models.NoticeSuccess, "Donation recorded successfully!")
	}
	s.amount = 0
	alreadyClosed := s.closed
	s.closed = true
	s.cancel()
	snap := s.nextSnapshotLocked()
	s.mu.Unlock()

	if err == nil && s.deps.notifier != nil {
		if nerr := s.deps.notifier.DonationCommitted(ctx, s.campaign, *donation); nerr != nil {
			s.deps.logger.Warn("donation notification not queued",
				zap.String("campaignId", commit.CampaignID),
				zap.Error(nerr),
			)
		}
	}
	if !alreadyClosed {
		s.deps.closed(s.id)
	}
	s.emit(snap)
}

func (s *Session) armLocked(d time.Duration, fire func(gen uint64)) {
	s.clearTimerLocked()
	gen := s.gen
	s.timer = s.deps.opts.Scheduler.AfterFunc(d, func() { fire(gen) })
}

// clearTimerLocked stops the live timer and invalidates any callback already in flight.
func (s *Session) clearTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Session) resetLocked() {
	s.step = models.StepAmountEntry
	s.amount = 0
	s.txnID = ""
	s.link = ""
	s.handoff = ""
	s.outcome = ""
}

func (s *Session) noticeLocked(level models.NoticeLevel, msg string) {
	s.notices = append(s.notices, models.Notice{Level: level, Message: msg, At: s.deps.opts.Now()})
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

// nextSnapshotLocked records a state change and returns the snapshot to publish.
func (s *Session) nextSnapshotLocked() models.PaymentSessionSnapshot {
	s.version++
	return s.snapshotLocked()
}

// emit publishes snap unless a newer version already went out. Transitions
// and timer callbacks publish after unlocking mu, so they can arrive out of order.
func (s *Session) emit(snap models.PaymentSessionSnapshot) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if snap.Version <= s.published {
		return
	}
	s.published = snap.Version
	s.deps.publish(snap)
}

func (s *Session) snapshotLocked() models.PaymentSessionSnapshot {
	snap := models.PaymentSessionSnapshot{
		SessionID:     s.id,
		Version:       s.version,
		CampaignID:    s.campaign.ID,
		CampaignTitle: s.campaign.Title,
		DonorID:       s.donor.UID,
		Step:          s.step,
		Amount:        s.amount,
		TransactionID: s.txnID,
		PaymentLink:   s.link,
		Handoff:       s.handoff,
		Attempts:      s.attempts,
		Outcome:       s.outcome,
		Committed:     s.committed,
		Closed:        s.closed,
		Notices:       append([]models.Notice(nil), s.notices...),
		UpdatedAt:     s.deps.opts.Now(),
	}
	if s.step == models.StepFailed {
		snap.FailureReasons = append([]string(nil), FailureReasons...)
	}
	return snap
}
