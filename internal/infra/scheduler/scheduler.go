package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"colporter_notifier/internal/app"
	"colporter_notifier/internal/domain/alert"
	"colporter_notifier/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// ScanScheduler runs the due-date scan in a fixed-delay loop: the next cycle
// starts one full interval after the previous one *finishes*, so an
// overrunning cycle can never overlap the next one.
type ScanScheduler struct {
	notifService app.NotificationService
	alerter      alert.Client // optional, nil disables ops alerts
	metrics      *metrics.Metrics
	logger       *logrus.Entry
	interval     time.Duration

	// sleep pauses for d or until ctx is done, reporting false on
	// cancellation. Replaced in tests to simulate many cycles without real
	// delays.
	sleep func(ctx context.Context, d time.Duration) bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScanScheduler(
	notifService app.NotificationService,
	alerter alert.Client,
	m *metrics.Metrics,
	logger *logrus.Entry,
	interval time.Duration,
) *ScanScheduler {
	return &ScanScheduler{
		notifService: notifService,
		alerter:      alerter,
		metrics:      m,
		logger:       logger,
		interval:     interval,
		sleep:        sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Start launches the scan loop in a background goroutine. The first cycle
// runs immediately.
func (s *ScanScheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
	s.logger.Infof("Due-date scan scheduler started (interval: %s).", s.interval)
}

func (s *ScanScheduler) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.runCycle(ctx)
		if !s.sleep(ctx, s.interval) {
			return
		}
	}
}

func (s *ScanScheduler) runCycle(ctx context.Context) {
	s.metrics.CyclesRun.Inc()
	start := time.Now()

	if err := s.notifService.RunDueDateScan(ctx); err != nil {
		s.metrics.CycleFailures.Inc()
		s.logger.Errorf("Due-date scan cycle failed: %v", err)
		if s.alerter != nil {
			if alertErr := s.alerter.Notify(fmt.Sprintf("Colporter notifier: scan cycle failed: %v", err)); alertErr != nil {
				s.logger.Errorf("Failed to deliver ops alert: %v", alertErr)
			}
		}
		return
	}
	s.logger.Infof("Due-date scan cycle finished in %s.", time.Since(start).Round(time.Millisecond))
}

// Stop cancels the loop and waits for an in-flight cycle to finish. A
// dispatch already started is allowed to complete; no new one begins after
// cancellation is observed.
func (s *ScanScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.logger.Info("Stopping due-date scan scheduler...")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("Due-date scan scheduler stopped.")
}
