package enrich

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/charmbracelet/log"
)

// ShutdownCoordinator turns process termination signals into a cooperative
// flag. While installed, SIGINT/SIGTERM do not kill the process; the engine
// observes Requested at batch boundaries and stops after the in-flight batch
// commits, so a signal never produces a partially-applied batch.
//
// The coordinator moves Uninstalled -> Installed at run start and back at run
// end; Uninstall is safe to defer and call twice.
type ShutdownCoordinator struct {
	mu        sync.Mutex
	ch        chan os.Signal
	requested atomic.Bool
	logger    *log.Logger
}

// NewShutdownCoordinator creates an uninstalled coordinator.
func NewShutdownCoordinator(logger *log.Logger) *ShutdownCoordinator {
	return &ShutdownCoordinator{logger: logger}
}

// Install registers the signal handler and clears any previous request.
func (s *ShutdownCoordinator) Install() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch != nil {
		return
	}

	s.requested.Store(false)
	s.ch = make(chan os.Signal, 1)
	signal.Notify(s.ch, os.Interrupt, syscall.SIGTERM)

	go func(ch chan os.Signal) {
		for range ch {
			s.requested.Store(true)
			if s.logger != nil {
				s.logger.Warn("shutdown requested, finishing current batch before stopping")
			}
		}
	}(s.ch)
}

// Uninstall removes the signal handler, restoring default signal behavior.
func (s *ShutdownCoordinator) Uninstall() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch == nil {
		return
	}

	signal.Stop(s.ch)
	close(s.ch)
	s.ch = nil
}

// Requested reports whether a termination signal arrived since Install.
func (s *ShutdownCoordinator) Requested() bool {
	return s.requested.Load()
}
