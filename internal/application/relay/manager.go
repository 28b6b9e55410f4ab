package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionInfo is a snapshot of a relay session
type SessionInfo struct {
	ID           string              `json:"session_id"`
	OpenedAt     time.Time           `json:"opened_at"`
	LastActivity time.Time           `json:"last_activity"`
	MessageCount int                 `json:"message_count"`
	LastEvent    simconfig.EventName `json:"last_event,omitempty"`
	LastPhase    simconfig.Phase     `json:"last_phase,omitempty"`
	InitialState simconfig.State     `json:"initial_state"`
}

// session holds the mutable bookkeeping of one relay session. done is
// cancelled when the session closes.
type session struct {
	mu   sync.RWMutex
	info SessionInfo

	done   context.Context
	cancel context.CancelFunc
}

func (s *session) snapshot() SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := s.info
	info.InitialState.MostRecentURLs = append([]string(nil), s.info.InitialState.MostRecentURLs...)
	return info
}

// Manager coordinates relay sessions
type Manager struct {
	eventBus  ports.EventBus
	metrics   ports.MetricsCollector
	validator *Validator
	logger    *zap.Logger

	sessions sync.Map // map[string]*session
	count    int
	countMu  sync.Mutex

	idleTimeout time.Duration
	now         func() time.Time
}

// NewManager creates a new relay manager
func NewManager(
	eventBus ports.EventBus,
	metrics ports.MetricsCollector,
	validator *Validator,
	logger *zap.Logger,
	idleTimeout time.Duration,
) *Manager {
	return &Manager{
		eventBus:    eventBus,
		metrics:     metrics,
		validator:   validator,
		logger:      logger,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// OpenSession starts a session whose initial state comes from defaults
func (m *Manager) OpenSession(ctx context.Context, defaults *simconfig.Defaults) (SessionInfo, error) {
	if defaults == nil {
		return SessionInfo{}, fmt.Errorf("defaults are required")
	}

	now := m.now()
	done, cancel := context.WithCancel(context.Background())
	s := &session{
		info: SessionInfo{
			ID:           uuid.New().String(),
			OpenedAt:     now,
			LastActivity: now,
			InitialState: defaults.State(),
		},
		done:   done,
		cancel: cancel,
	}
	m.sessions.Store(s.info.ID, s)
	m.adjustCount(1)

	m.logger.Info("relay session opened",
		zap.String("session_id", s.info.ID),
		zap.String("wdc_url", s.info.InitialState.WdcURL))

	return s.snapshot(), nil
}

// GetSession returns a snapshot of a session
func (m *Manager) GetSession(ctx context.Context, sessionID string) (SessionInfo, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return SessionInfo{}, err
	}
	return s.snapshot(), nil
}

// CloseSession removes a session and ends every subscription attached to it
func (m *Manager) CloseSession(ctx context.Context, sessionID string) error {
	v, loaded := m.sessions.LoadAndDelete(sessionID)
	if !loaded {
		return fmt.Errorf("%w: %s", ports.ErrSessionNotFound, sessionID)
	}
	v.(*session).cancel()
	m.adjustCount(-1)

	m.logger.Info("relay session closed", zap.String("session_id", sessionID))
	return nil
}

// Touch marks a session as active without sending a message
func (m *Manager) Touch(sessionID string) error {
	s, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.info.LastActivity = m.now()
	s.mu.Unlock()
	return nil
}

// Publish validates msg, stamps it and publishes it to the messages topic.
// The returned message carries the assigned ID and timestamp.
func (m *Manager) Publish(ctx context.Context, msg ports.Message) (ports.Message, error) {
	if err := m.validator.Validate(msg); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			m.metrics.RecordMessageRejected(verr.Reason)
		}
		return ports.Message{}, err
	}

	s, err := m.lookup(msg.SessionID)
	if err != nil {
		m.metrics.RecordMessageRejected("unknown_session")
		return ports.Message{}, err
	}

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = m.now()
	}

	if err := m.eventBus.Publish(ctx, ports.MessagesTopic, msg); err != nil {
		m.logger.Error("failed to publish message",
			zap.String("session_id", msg.SessionID),
			zap.String("event", msg.Event.String()),
			zap.Error(err))
		return ports.Message{}, fmt.Errorf("failed to publish message: %w", err)
	}

	s.mu.Lock()
	s.info.MessageCount++
	s.info.LastEvent = msg.Event
	if msg.Phase != "" {
		s.info.LastPhase = msg.Phase
	}
	s.info.LastActivity = msg.Timestamp
	s.mu.Unlock()

	m.metrics.RecordMessageRelayed(msg.Event)

	m.logger.Debug("message relayed",
		zap.String("session_id", msg.SessionID),
		zap.String("message_id", msg.ID),
		zap.String("event", msg.Event.String()))

	return msg, nil
}

// SessionContext returns a context derived from parent that is also
// cancelled when the session closes.
func (m *Manager) SessionContext(parent context.Context, sessionID string) (context.Context, context.CancelFunc, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(s.done, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, nil
}

// Subscribe delivers every message of one session to handler until ctx ends
// or the session closes.
func (m *Manager) Subscribe(ctx context.Context, sessionID string, handler ports.MessageHandler) error {
	subCtx, cancel, err := m.SessionContext(ctx, sessionID)
	if err != nil {
		return err
	}
	context.AfterFunc(subCtx, cancel)

	err = m.eventBus.Subscribe(subCtx, ports.MessagesTopic, func(ctx context.Context, msg ports.Message) error {
		if msg.SessionID != sessionID {
			return nil
		}
		return handler(ctx, msg)
	})
	if err != nil {
		cancel()
		return err
	}
	return nil
}

// ActiveSessions returns the number of open sessions
func (m *Manager) ActiveSessions() int {
	m.countMu.Lock()
	defer m.countMu.Unlock()
	return m.count
}

// CloseIdle closes sessions without activity for longer than the idle
// timeout and returns how many were closed.
func (m *Manager) CloseIdle(ctx context.Context) int {
	if m.idleTimeout <= 0 {
		return 0
	}

	cutoff := m.now().Add(-m.idleTimeout)
	var idle []string
	m.sessions.Range(func(key, value interface{}) bool {
		s := value.(*session)
		s.mu.RLock()
		last := s.info.LastActivity
		s.mu.RUnlock()
		if last.Before(cutoff) {
			idle = append(idle, key.(string))
		}
		return true
	})

	closed := 0
	for _, id := range idle {
		if err := m.CloseSession(ctx, id); err == nil {
			closed++
		}
	}
	return closed
}

// Shutdown closes every open session
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("shutting down relay manager", zap.Int("sessions", m.ActiveSessions()))

	m.sessions.Range(func(key, value interface{}) bool {
		_ = m.CloseSession(ctx, key.(string))
		return true
	})

	return nil
}

func (m *Manager) lookup(sessionID string) (*session, error) {
	v, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrSessionNotFound, sessionID)
	}
	return v.(*session), nil
}

func (m *Manager) adjustCount(delta int) {
	m.countMu.Lock()
	m.count += delta
	count := m.count
	m.countMu.Unlock()

	m.metrics.SetActiveSessions(count)
}
