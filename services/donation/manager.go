package donation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campusconnect/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClosedRetention is how long a closed session stays readable.
const ClosedRetention = time.Minute

// Manager owns the open donation dialogs, one Session each.
type Manager struct {
	campaigns CampaignReader
	snapshots SnapshotStore
	deps      *sessionDeps

	mu        sync.RWMutex
	sessions  map[string]*Session
	lastTouch map[string]time.Time
	closedAt  map[string]time.Time

	observersMu sync.RWMutex
	observers   []Observer

	// commits counts ledger writes already issued.
	commits sync.WaitGroup
}

// ManagerConfig wires a Manager. Notifier and Snapshots are optional.
type ManagerConfig struct {
	Campaigns CampaignReader
	Ledger    Ledger
	Notifier  CommitNotifier
	Snapshots SnapshotStore
	Logger    *zap.Logger
	Options   Options
}

func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Campaigns == nil || cfg.Ledger == nil {
		return nil, fmt.Errorf("donation manager initialization error: campaign reader or ledger is nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		campaigns: cfg.Campaigns,
		snapshots: cfg.Snapshots,
		sessions:  make(map[string]*Session),
		lastTouch: make(map[string]time.Time),
		closedAt:  make(map[string]time.Time),
	}
	m.deps = &sessionDeps{
		opts:     cfg.Options.withDefaults(),
		ledger:   cfg.Ledger,
		notifier: cfg.Notifier,
		logger:   logger,
		publish:  m.publish,
		closed:   m.markClosed,
		inflight: &m.commits,
	}
	return m, nil
}

// Open starts a donation dialog for campaignID on behalf of donor.
func (m *Manager) Open(ctx context.Context, campaignID string, donor models.Identity) (models.PaymentSessionSnapshot, error) {
	campaign, err := m.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return models.PaymentSessionSnapshot{}, fmt.Errorf("failed to load campaign %s: %w", campaignID, err)
	}

	s := newSession(uuid.New().String(), *campaign, donor, m.deps)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.lastTouch[s.id] = m.deps.opts.Now()
	m.mu.Unlock()

	snap := s.Snapshot()
	m.deps.logger.Debug("donation session opened",
		zap.String("sessionId", s.id),
		zap.String("campaignId", campaignID),
		zap.String("donorId", donor.UID),
	)
	s.emit(snap)
	return snap, nil
}

// Get returns the session if it exists and belongs to donorID. Closed sessions
// stay readable for ClosedRetention so the client can show the final step.
func (m *Manager) Get(sessionID, donorID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.donor.UID != donorID {
		return nil, ErrSessionNotFound
	}
	m.lastTouch[sessionID] = m.deps.opts.Now()
	return s, nil
}

func (m *Manager) Donate(sessionID, donorID, amountText, userAgent string) (models.PaymentSessionSnapshot, error) {
	s, err := m.Get(sessionID, donorID)
	if err != nil {
		return models.PaymentSessionSnapshot{}, err
	}
	return s.Donate(amountText, userAgent)
}

func (m *Manager) ConfirmSuccess(sessionID, donorID string) (models.PaymentSessionSnapshot, error) {
	s, err := m.Get(sessionID, donorID)
	if err != nil {
		return models.PaymentSessionSnapshot{}, err
	}
	return s.ConfirmSuccess()
}

func (m *Manager) ReportFailure(sessionID, donorID string) (models.PaymentSessionSnapshot, error) {
	s, err := m.Get(sessionID, donorID)
	if err != nil {
		return models.PaymentSessionSnapshot{}, err
	}
	return s.ReportFailure()
}

func (m *Manager) Retry(sessionID, donorID, userAgent string) (models.PaymentSessionSnapshot, error) {
	s, err := m.Get(sessionID, donorID)
	if err != nil {
		return models.PaymentSessionSnapshot{}, err
	}
	return s.Retry(userAgent)
}

func (m *Manager) Reset(sessionID, donorID string) (models.PaymentSessionSnapshot, error) {
	s, err := m.Get(sessionID, donorID)
	if err != nil {
		return models.PaymentSessionSnapshot{}, err
	}
	return s.Reset()
}

// Close tears the dialog down. Closing an unknown session is an error so the
// client learns its id is stale.
func (m *Manager) Close(sessionID, donorID string) (models.PaymentSessionSnapshot, error) {
	s, err := m.Get(sessionID, donorID)
	if err != nil {
		return models.PaymentSessionSnapshot{}, err
	}
	return s.Close(), nil
}

// Subscribe registers an observer for every session change.
func (m *Manager) Subscribe(o Observer) {
	m.observersMu.Lock()
	defer m.observersMu.Unlock()
	m.observers = append(m.observers, o)
}

// Len is the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) - len(m.closedAt)
}

// Sweep closes sessions untouched for longer than the session TTL, which
// covers dialogs abandoned without a close call, and drops closed sessions
// past their retention. It returns how many sessions it closed.
func (m *Manager) Sweep(now time.Time) int {
	ttl := m.deps.opts.SessionTTL

	m.mu.Lock()
	var stale []*Session
	var dropped []string
	for id, s := range m.sessions {
		if closed, ok := m.closedAt[id]; ok {
			if now.Sub(closed) > ClosedRetention {
				delete(m.sessions, id)
				delete(m.lastTouch, id)
				delete(m.closedAt, id)
				dropped = append(dropped, id)
			}
			continue
		}
		if now.Sub(m.lastTouch[id]) > ttl {
			stale = append(stale, s)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if m.snapshots != nil {
		for _, id := range dropped {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := m.snapshots.Delete(ctx, id); err != nil {
				m.deps.logger.Warn("failed to drop donation session snapshot", zap.String("sessionId", id), zap.Error(err))
			}
			cancel()
		}
	}
	if len(stale) > 0 {
		m.deps.logger.Info("expired donation sessions closed", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run sweeps expired sessions until ctx is done, then closes whatever is left
// and waits for commits already issued.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			m.Sweep(m.deps.opts.Now())
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.RLock()
	open := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		if _, closed := m.closedAt[id]; !closed {
			open = append(open, s)
		}
	}
	m.mu.RUnlock()

	for _, s := range open {
		s.Close()
	}
	// Closed sessions issue no new commits, so this only waits for writes in flight.
	m.commits.Wait()
}

func (m *Manager) markClosed(sessionID string) {
	m.mu.Lock()
	if _, ok := m.sessions[sessionID]; ok {
		m.closedAt[sessionID] = m.deps.opts.Now()
	}
	m.mu.Unlock()
}

func (m *Manager) publish(snap models.PaymentSessionSnapshot) {
	if m.snapshots != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := m.snapshots.Save(ctx, snap)
		cancel()
		if err != nil {
			m.deps.logger.Warn("failed to mirror donation session",
				zap.String("sessionId", snap.SessionID),
				zap.Error(err),
			)
		}
	}

	m.observersMu.RLock()
	observers := append([]Observer(nil), m.observers...)
	m.observersMu.RUnlock()
	for _, o := range observers {
		o(snap)
	}
}
