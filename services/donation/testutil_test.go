package donation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	campaignRepo "campusconnect/database/repository/campaign"
	"campusconnect/models"

	"github.com/stretchr/testify/require"
)

const (
	mobileUA  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Mobile Safari/537.36"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/126.0 Safari/537.36"
)

// manualScheduler fires timers only when Advance moves its clock.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*manualTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// countingLedger wraps a real ledger and counts calls.
type countingLedger struct {
	mu      sync.Mutex
	inner   Ledger
	err     error
	commits []models.DonationCommit
}

func (l *countingLedger) CommitDonation(ctx context.Context, commit models.DonationCommit) (*models.Donation, error) {
	l.mu.Lock()
	l.commits = append(l.commits, commit)
	err := l.err
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return l.inner.CommitDonation(ctx, commit)
}

func (l *countingLedger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.commits)
}

type recordingNotifier struct {
	mu        sync.Mutex
	donations []models.Donation
}

func (n *recordingNotifier) DonationCommitted(_ context.Context, _ models.Campaign, d models.Donation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.donations = append(n.donations, d)
	return nil
}

type memorySnapshots struct {
	mu    sync.Mutex
	saved map[string]models.PaymentSessionSnapshot
	saves int
}

func (m *memorySnapshots) Save(_ context.Context, snap models.PaymentSessionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string]models.PaymentSessionSnapshot)
	}
	m.saved[snap.SessionID] = snap
	m.saves++
	return nil
}

func (m *memorySnapshots) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, id)
	return nil
}

type fixture struct {
	store     *campaignRepo.MemoryStore
	ledger    *countingLedger
	sched     *manualScheduler
	notifier  *recordingNotifier
	snapshots *memorySnapshots
	manager   *Manager
	campaign  *models.Campaign
	donor     models.Identity
}

var errLedgerDown = errors.New("ledger unavailable")

func newFixture(t *testing.T, campaign models.Campaign) *fixture {
	t.Helper()
	store := campaignRepo.NewMemoryStore()
	c, err := store.Create(context.Background(), campaign)
	require.NoError(t, err)

	f := &fixture{
		store:     store,
		ledger:    &countingLedger{inner: store},
		sched:     &manualScheduler{},
		notifier:  &recordingNotifier{},
		snapshots: &memorySnapshots{},
		campaign:  c,
		donor:     models.Identity{UID: "donor-1", DisplayName: "Ravi Kumar"},
	}
	f.manager, err = NewManager(ManagerConfig{
		Campaigns: store,
		Ledger:    f.ledger,
		Notifier:  f.notifier,
		Snapshots: f.snapshots,
		Options: Options{
			DefaultPayee: Payee{Address: "campusfund@upi", Name: "Campus Connect"},
			Scheduler:    f.sched,
		},
	})
	require.NoError(t, err)
	return f
}

func defaultCampaign() models.Campaign {
	return models.Campaign{
		Title:       "Hostel water purifier",
		Description: "Clean drinking water for Block C",
		Target:      50000,
		Raised:      12000,
		Donations:   5,
		Category:    models.CategoryCommunity,
		CreatedBy:   "organizer-1",
		CreatorName: "Asha",
	}
}

func (f *fixture) open(t *testing.T) *Session {
	t.Helper()
	snap, err := f.manager.Open(context.Background(), f.campaign.ID, f.donor)
	require.NoError(t, err)
	s, err := f.manager.Get(snap.SessionID, f.donor.UID)
	require.NoError(t, err)
	return s
}
