package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"colporter_notifier/internal/domain/colporter"
	"colporter_notifier/internal/domain/mail"

	"github.com/sirupsen/logrus"
)

// ReportService mails a periodic due-status digest to the administrator. It
// is a read-path consumer of the status engine: the counts it reports come
// from the same ComputeStatus the scan uses, so digest and notifications can
// never disagree about who is overdue.
type ReportService struct {
	colporterRepo colporter.Repository
	mailClient    mail.Client
	logger        *logrus.Entry
	adminEmail    string

	now func() time.Time
}

func NewReportService(cr colporter.Repository, mc mail.Client, logger *logrus.Entry, adminEmail string) *ReportService {
	return &ReportService{
		colporterRepo: cr,
		mailClient:    mc,
		logger:        logger,
		adminEmail:    adminEmail,
		now:           time.Now,
	}
}

// digestRow is one colporter needing attention in the digest.
type digestRow struct {
	FullName string
	Status   colporter.DueStatus
	DueDate  time.Time
}

// buildDigest partitions the roster by due status and collects the Warning
// and Overdue colporters, overdue first, then by due date.
func buildDigest(roster []*colporter.Colporter, now time.Time) (map[colporter.DueStatus]int, []digestRow) {
	counts := map[colporter.DueStatus]int{}
	var attention []digestRow
	for _, c := range roster {
		status, dueDate := colporter.ComputeStatus(c.LastVisitDate, now)
		counts[status]++
		if status == colporter.StatusWarning || status == colporter.StatusOverdue {
			attention = append(attention, digestRow{FullName: c.FullName, Status: status, DueDate: dueDate.Time})
		}
	}
	sort.Slice(attention, func(i, j int) bool {
		if attention[i].Status != attention[j].Status {
			return attention[i].Status == colporter.StatusOverdue
		}
		return attention[i].DueDate.Before(attention[j].DueDate)
	})
	return counts, attention
}

// SendStatusDigest aggregates the roster and mails the summary to the admin
// address. A digest of zeros is still sent: silence would be indistinguishable
// from a broken job.
func (s *ReportService) SendStatusDigest(ctx context.Context) error {
	now := s.now().UTC()

	roster, err := s.colporterRepo.ListTracked(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tracked colporters for digest: %w", err)
	}

	counts, attention := buildDigest(roster, now)

	subject := fmt.Sprintf("Resumen de visitas de colportores — %s", now.Format("02/01/2006"))
	body := buildDigestBody(counts, attention)

	if err := s.mailClient.Send(s.adminEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send status digest to %s: %w", s.adminEmail, err)
	}
	s.logger.Infof("Status digest sent to %s (%d colporters, %d needing attention).", s.adminEmail, len(roster), len(attention))
	return nil
}

func buildDigestBody(counts map[colporter.DueStatus]int, attention []digestRow) string {
	var b strings.Builder
	b.WriteString("<h3>Resumen de visitas</h3>")
	b.WriteString(fmt.Sprintf("<ul><li>Al día: %d</li><li>Por vencer (30 días): %d</li><li>Vencidas: %d</li><li>Sin visita registrada: %d</li></ul>",
		counts[colporter.StatusOnTrack], counts[colporter.StatusWarning], counts[colporter.StatusOverdue], counts[colporter.StatusNoRecord]))

	if len(attention) == 0 {
		b.WriteString("<p>Ningún colportor requiere atención esta semana.</p>")
		return b.String()
	}

	b.WriteString("<h4>Requieren atención</h4><table border=\"1\" cellpadding=\"4\"><tr><th>Colportor</th><th>Estado</th><th>Vencimiento</th></tr>")
	for _, row := range attention {
		estado := "Por vencer"
		if row.Status == colporter.StatusOverdue {
			estado = "Vencida"
		}
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td></tr>", row.FullName, estado, row.DueDate.Format("02/01/2006")))
	}
	b.WriteString("</table>")
	return b.String()
}
