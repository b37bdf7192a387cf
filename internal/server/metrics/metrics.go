// Package metrics exports settlement and board counters in the Prometheus
// format.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/payrun/internal/logging"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

const namespace = "payrun"

// Recorder counts scheduler events. It owns its registry so tests and
// multiple instances never collide on the global one.
type Recorder struct {
	registry *prometheus.Registry

	settlements   prometheus.Counter
	approvals     prometheus.Counter
	settledAmount prometheus.Counter
	slotsFilled   prometheus.Counter
	occupancy     prometheus.Gauge
	runSize       prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_settlements_total",
			Help:      "Slots settled one at a time.",
		}),
		approvals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_approvals_total",
			Help:      "Whole-board approvals committed.",
		}),
		settledAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settled_amount_total",
			Help:      "Sum of every amount written to the history ledger.",
		}),
		slotsFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autofill_slots_total",
			Help:      "Slots created by auto-fill.",
		}),
		occupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "board_occupied_slots",
			Help:      "Occupied board positions after the last auto-fill.",
		}),
		runSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "board_approval_slots",
			Help:      "Slots settled per board approval.",
			Buckets:   prometheus.LinearBuckets(1, 1, models.BoardCapacity),
		}),
	}

	r.registry.MustRegister(
		r.settlements, r.approvals, r.settledAmount, r.slotsFilled, r.occupancy, r.runSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) SlotSettled(amount models.Money) {
	r.settlements.Inc()
	r.settledAmount.Add(amount.InexactFloat64())
}

func (r *Recorder) BoardApproved(slots int, total models.Money) {
	r.approvals.Inc()
	r.runSize.Observe(float64(slots))
	r.settledAmount.Add(total.InexactFloat64())
}

func (r *Recorder) SlotsFilled(n int) {
	r.slotsFilled.Add(float64(n))
}

func (r *Recorder) BoardOccupancy(n int) {
	r.occupancy.Set(float64(n))
}

// Handler serves the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Server exposes /metrics over HTTP.
type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewServer(address string, r *Recorder, l logging.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return &Server{address: address, handler: mux, logger: l.With("module", "metrics_server")}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting metrics server", "address", listen.Addr().String())
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
