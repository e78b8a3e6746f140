// Package connectivity provides the network-reachability feed. It
// periodically probes the remote API host; any HTTP response at all counts
// as reachable, since auth failures still prove the network path works.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
	portssvc "github.com/whitebox/cryptomonitor/internal/core/ports/services"
)

// Service polls a probe URL and publishes status transitions.
type Service struct {
	probeURL   string
	interval   time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.RWMutex
	status  domain.NetworkStatus
	updates chan domain.NetworkStatus

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a connectivity Service probing probeURL every interval.
func NewService(probeURL string, interval time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		probeURL:   probeURL,
		interval:   interval,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
		status:     domain.NetworkStatusUnknown,
		updates:    make(chan domain.NetworkStatus, 8),
	}
}

// Ensure implementation matches interface
var _ portssvc.ConnectivitySvcFacade = (*Service)(nil)

// Start begins probing. The first probe runs immediately so consumers get a
// status without waiting a full interval.
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.updates)

		s.probe(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.probe(ctx)
			}
		}
	}()
}

// Stop cancels probing and waits for the poll loop to exit.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Status returns the most recently observed reachability state.
func (s *Service) Status() domain.NetworkStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Updates delivers a value on every status transition.
func (s *Service) Updates() <-chan domain.NetworkStatus {
	return s.updates
}

func (s *Service) probe(ctx context.Context) {
	status := domain.NetworkStatusConnected

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.probeURL, nil)
	if err != nil {
		s.logger.Error("connectivity probe misconfigured", slog.String("url", s.probeURL), slog.String("error", err.Error()))
		return
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		status = domain.NetworkStatusDisconnected
	} else {
		_ = resp.Body.Close()
	}

	s.mu.Lock()
	changed := s.status != status
	s.status = status
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.Info("network status changed", slog.String("status", status.String()))
	select {
	case s.updates <- status:
	default:
		// Subscriber is behind; the latest status is still readable via Status.
	}
}
