package app

import (
	"context"
	"fmt"
	"time"

	"colporter_notifier/internal/domain/colporter"
	"colporter_notifier/internal/domain/mail"
	"colporter_notifier/internal/domain/notification"
	"colporter_notifier/internal/domain/user"
	idb "colporter_notifier/internal/infra/database"
	"colporter_notifier/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// NotificationService defines the operations of the due-date notification
// engine.
type NotificationService interface {
	// RunDueDateScan executes one full scan cycle: evaluate every tracked
	// colporter against today's trigger dates, dispatch the notifications
	// that are due, and append the new ledger records in one batch.
	RunDueDateScan(ctx context.Context) error
}

// DueNotificationService implements NotificationService.
type DueNotificationService struct {
	colporterRepo colporter.Repository
	userRepo      user.Repository
	notifRepo     notification.Repository
	mailClient    mail.Client
	metrics       *metrics.Metrics
	logger        *logrus.Entry

	// recordFailedSends controls whether a failed dispatch still writes a
	// ledger record. True mirrors the historical behavior: the dedupe key
	// does not distinguish success from failure, so a transient SMTP error
	// costs that day's notification. False leaves no record, letting a
	// rerun on the same day retry the send.
	recordFailedSends bool

	now func() time.Time
}

func NewDueNotificationService(
	cr colporter.Repository,
	ur user.Repository,
	nr notification.Repository,
	mc mail.Client,
	m *metrics.Metrics,
	logger *logrus.Entry,
	recordFailedSends bool,
) *DueNotificationService {
	return &DueNotificationService{
		colporterRepo:     cr,
		userRepo:          ur,
		notifRepo:         nr,
		mailClient:        mc,
		metrics:           m,
		logger:            logger,
		recordFailedSends: recordFailedSends,
		now:               time.Now,
	}
}

// RunDueDateScan runs one cycle. "Now" is captured once so every decision in
// the cycle agrees on what today is. A colporter-level problem (no email,
// SMTP error, unreadable ledger key) is logged and skipped; only an
// unreadable roster or a failed batch append abort the cycle.
func (s *DueNotificationService) RunDueDateScan(ctx context.Context) error {
	now := s.now().UTC()
	today := colporter.DayUTC(now)

	roster, err := s.colporterRepo.ListTracked(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tracked colporters: %w", err)
	}
	s.logger.Infof("Scanning %d colporters for due-date notifications on %s", len(roster), today.Format("2006-01-02"))

	var newRecords []*notification.Record
	for _, c := range roster {
		if ctx.Err() != nil {
			s.logger.Warn("Scan cancelled mid-cycle; no further dispatches will start.")
			break
		}

		_, dueDate := colporter.ComputeStatus(c.LastVisitDate, now)
		if !dueDate.Valid {
			continue // no visit on record, nothing is ever scheduled
		}

		for _, kind := range notification.Kinds() {
			if !kind.TriggerDate(dueDate.Time).Equal(today) {
				continue
			}
			if rec := s.processTrigger(ctx, c, kind, dueDate.Time, today, now); rec != nil {
				newRecords = append(newRecords, rec)
			}
		}
	}

	// The batch append must survive a cancellation observed mid-cycle:
	// mails already dispatched need their dedupe record or a restarted
	// scheduler could send them again the same day.
	if err := s.notifRepo.BulkCreate(context.WithoutCancel(ctx), newRecords); err != nil {
		return fmt.Errorf("failed to persist notification log batch: %w", err)
	}
	if len(newRecords) > 0 {
		s.logger.Infof("Persisted %d new notification log records.", len(newRecords))
	}
	return nil
}

// processTrigger handles one (colporter, kind) pair whose trigger date is
// today: resolve the email, consult the ledger, dispatch, and return the
// record to append (nil when the pair is skipped).
func (s *DueNotificationService) processTrigger(ctx context.Context, c *colporter.Colporter, kind notification.Kind, dueDate, today, now time.Time) *notification.Record {
	email, err := s.userRepo.FindNotificationEmail(ctx, c.ID)
	if err != nil {
		if err == idb.ErrEmailNotFound {
			s.logger.Warnf("No notification email for colporter %s (ID: %d). Skipping %s.", c.FullName, c.ID, kind)
		} else {
			s.logger.Errorf("Failed to resolve notification email for colporter %d: %v", c.ID, err)
		}
		return nil
	}

	exists, err := s.notifRepo.Exists(ctx, c.ID, kind, today)
	if err != nil {
		// Without a readable ledger the send could duplicate. Skip this
		// pair for the cycle.
		s.logger.Errorf("Failed to check notification log for colporter %d, kind %s: %v", c.ID, kind, err)
		return nil
	}
	if exists {
		s.metrics.DuplicatesSkipped.Inc()
		s.logger.Debugf("Notification for colporter %d, kind %s, day %s already sent. Skipping.", c.ID, kind, today.Format("2006-01-02"))
		return nil
	}

	subject, body := buildDueMessage(kind, c.FullName, dueDate)
	if sendErr := s.mailClient.Send(email, subject, body); sendErr != nil {
		s.metrics.SendFailures.Inc()
		s.logger.Errorf("Failed to send %s notification to %s for colporter %s (ID: %d): %v", kind, email, c.FullName, c.ID, sendErr)
		if !s.recordFailedSends {
			return nil
		}
	} else {
		s.metrics.MailsSent.WithLabelValues(string(kind)).Inc()
		s.logger.Infof("Sent %s notification to %s for colporter %s (ID: %d), due %s.", kind, email, c.FullName, c.ID, dueDate.Format("2006-01-02"))
	}

	return &notification.Record{
		ColporterID:    c.ID,
		Kind:           kind,
		NotifyDate:     today,
		SentAt:         now,
		RecipientEmail: email,
	}
}

func buildDueMessage(kind notification.Kind, fullName string, dueDate time.Time) (subject, htmlBody string) {
	formattedDate := dueDate.Format("02/01/2006")
	switch kind {
	case notification.KindPreDue:
		subject = fmt.Sprintf("Recordatorio: la visita de %s vence el %s", fullName, formattedDate)
		htmlBody = fmt.Sprintf(
			"<p>La visita del colportor <b>%s</b> vence en %d días, el <b>%s</b>.</p><p>Por favor, programe una nueva visita antes de esa fecha.</p>",
			fullName, notification.PreDueLeadDays, formattedDate)
	default: // KindDue
		subject = fmt.Sprintf("La visita de %s vence hoy (%s)", fullName, formattedDate)
		htmlBody = fmt.Sprintf(
			"<p>La visita del colportor <b>%s</b> vence hoy, <b>%s</b>.</p><p>Es necesario programar una nueva visita cuanto antes.</p>",
			fullName, formattedDate)
	}
	return subject, htmlBody
}
