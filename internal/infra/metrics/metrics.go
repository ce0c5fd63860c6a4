package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the notifier.
type Metrics struct {
	CyclesRun         prometheus.Counter
	CycleFailures     prometheus.Counter
	MailsSent         *prometheus.CounterVec
	SendFailures      prometheus.Counter
	DuplicatesSkipped prometheus.Counter
}

// New creates all metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry so
// repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CyclesRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "colporter_notifier_cycles_total",
			Help: "Total number of due-date scan cycles started",
		}),
		CycleFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "colporter_notifier_cycle_failures_total",
			Help: "Total number of scan cycles that ended with a fatal error",
		}),
		MailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "colporter_notifier_mails_sent_total",
			Help: "Total number of notification mails dispatched, by kind",
		}, []string{"kind"}),
		SendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "colporter_notifier_send_failures_total",
			Help: "Total number of mail dispatch attempts that failed",
		}),
		DuplicatesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "colporter_notifier_duplicates_skipped_total",
			Help: "Total number of sends skipped because the ledger already had a record",
		}),
	}
}

// NewServer returns an HTTP server exposing /metrics and /healthz on addr.
// The caller starts it and shuts it down.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
