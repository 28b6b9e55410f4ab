package relay

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically closes idle relay sessions
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSweeper creates a new idle-session sweeper
func NewSweeper(manager *Manager, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		manager:  manager,
		interval: interval,
		logger:   logger,
	}
}

// Start starts the sweep loop
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.interval <= 0 {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(s.stopCh, s.doneCh)
}

// Stop stops the sweep loop and waits for it to exit
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// run is the main sweep loop
func (s *Sweeper) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	closed := s.manager.CloseIdle(context.Background())
	if closed > 0 {
		s.logger.Info("closed idle relay sessions",
			zap.Int("closed", closed),
			zap.Int("active", s.manager.ActiveSessions()))
	}
}
