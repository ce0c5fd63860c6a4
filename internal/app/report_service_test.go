package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"colporter_notifier/internal/domain/colporter"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportService(cr *fakeColporterRepo, mc *fakeMailClient, now time.Time) *ReportService {
	s := NewReportService(cr, mc, logrus.New().WithField("component", "test"), "admin@example.org")
	s.now = func() time.Time { return now }
	return s
}

func TestSendStatusDigest_PartitionsRosterByStatus(t *testing.T) {
	now := time.Date(2024, time.December, 17, 7, 0, 0, 0, time.UTC)
	roster := &fakeColporterRepo{colporters: []*colporter.Colporter{
		trackedColporter(1, "Ana Herrera", testDate(2024, time.October, 1)), // due 2025-10-01, on track
		trackedColporter(2, "Luis Rojas", testDate(2024, time.January, 1)),  // due 2025-01-01, warning
		trackedColporter(3, "Marta Vega", testDate(2023, time.June, 1)),     // due 2024-06-01, overdue
		{ID: 4, FullName: "Pedro Díaz"},                                     // no visit recorded
	}}
	mailer := &fakeMailClient{}

	svc := newTestReportService(roster, mailer, now)
	require.NoError(t, svc.SendStatusDigest(context.Background()))

	require.Len(t, mailer.sent, 1)
	digest := mailer.sent[0]
	assert.Equal(t, "admin@example.org", digest.To)
	assert.Contains(t, digest.Body, "Al día: 1")
	assert.Contains(t, digest.Body, "Por vencer (30 días): 1")
	assert.Contains(t, digest.Body, "Vencidas: 1")
	assert.Contains(t, digest.Body, "Sin visita registrada: 1")
	assert.Contains(t, digest.Body, "Luis Rojas")
	assert.Contains(t, digest.Body, "Marta Vega")
	assert.NotContains(t, digest.Body, "Ana Herrera")
}

func TestBuildDigest_OverdueListedBeforeWarning(t *testing.T) {
	now := testDate(2024, time.December, 17)
	roster := []*colporter.Colporter{
		trackedColporter(1, "Luis Rojas", testDate(2024, time.January, 1)), // warning
		trackedColporter(2, "Marta Vega", testDate(2023, time.June, 1)),    // overdue
		trackedColporter(3, "Rosa Lima", testDate(2023, time.March, 1)),    // overdue, older
	}

	counts, attention := buildDigest(roster, now)
	assert.Equal(t, 1, counts[colporter.StatusWarning])
	assert.Equal(t, 2, counts[colporter.StatusOverdue])

	require.Len(t, attention, 3)
	assert.Equal(t, "Rosa Lima", attention[0].FullName)
	assert.Equal(t, "Marta Vega", attention[1].FullName)
	assert.Equal(t, "Luis Rojas", attention[2].FullName)
}

func TestSendStatusDigest_EmptyRosterStillSends(t *testing.T) {
	roster := &fakeColporterRepo{}
	mailer := &fakeMailClient{}

	svc := newTestReportService(roster, mailer, testDate(2024, time.December, 16))
	require.NoError(t, svc.SendStatusDigest(context.Background()))

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Body, "Ningún colportor requiere atención")
}

func TestSendStatusDigest_RosterErrorPropagates(t *testing.T) {
	roster := &fakeColporterRepo{err: fmt.Errorf("connection reset")}
	mailer := &fakeMailClient{}

	svc := newTestReportService(roster, mailer, testDate(2024, time.December, 16))
	err := svc.SendStatusDigest(context.Background())
	require.Error(t, err)
	assert.Empty(t, mailer.sent)
}

func TestSendStatusDigest_MailErrorPropagates(t *testing.T) {
	roster := &fakeColporterRepo{}
	mailer := &fakeMailClient{err: fmt.Errorf("smtp: connection refused")}

	svc := newTestReportService(roster, mailer, testDate(2024, time.December, 16))
	err := svc.SendStatusDigest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send status digest")
}
