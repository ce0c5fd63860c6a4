package scheduler

import (
	"context"
	"fmt"
	"time"

	"colporter_notifier/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DigestScheduler triggers the admin status digest on a calendar schedule.
// Unlike the scan loop, the digest is a wall-clock job ("Monday 07:00"), so
// it runs on a cron engine.
type DigestScheduler struct {
	cronEngine    *cron.Cron
	reportService *app.ReportService
	logger        *logrus.Entry
	cronSpec      string
}

func NewDigestScheduler(rs *app.ReportService, logger *logrus.Entry, cronSpec string) *DigestScheduler {
	return &DigestScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.UTC)),
		reportService: rs,
		logger:        logger,
		cronSpec:      cronSpec,
	}
}

func (s *DigestScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for admin status digest.")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.reportService.SendStatusDigest(ctx); err != nil {
			s.logger.Errorf("Error during status digest: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("could not add digest cron job (%q): %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Digest scheduler started (spec: %q).", s.cronSpec)
	return nil
}

func (s *DigestScheduler) Stop() {
	ctx := s.cronEngine.Stop() // Waits for a running job before completing.
	<-ctx.Done()
	s.logger.Info("Digest scheduler stopped.")
}
