package dashboard

import (
	"context"
	"time"

	"github.com/PratikDhanave/clinic-dashboard/internal/eventlog"
	"github.com/PratikDhanave/clinic-dashboard/internal/logging"
	"github.com/PratikDhanave/clinic-dashboard/internal/metrics"
	"github.com/PratikDhanave/clinic-dashboard/internal/models"
	"github.com/PratikDhanave/clinic-dashboard/internal/toast"
)

// LoadFailedMessage is the toast shown when event logs cannot be loaded.
const LoadFailedMessage = "Failed to load event logs"

// Source lists raw event-log records. backend.Client and
// store.LookbackSource implement it.
type Source interface {
	ListEventLogs(ctx context.Context) ([]models.RawEventLog, error)
}

// Notifier is the part of the toast manager the service reports through.
type Notifier interface {
	Error(message string) toast.Message
}

// Service builds the dashboard's chart data.
type Service struct {
	source      Source
	toasts      Notifier
	logger      *logging.Logger
	metrics     *metrics.Metrics
	loc         *time.Location
	defaultDays int
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for load failures.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics records load outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocation sets the time zone that day buckets and labels use.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDefaultDays sets the window used when a request asks for fewer than one day.
func WithDefaultDays(days int) Option {
	return func(s *Service) { s.defaultDays = days }
}

// NewService wires a source to a toast notifier.
func NewService(src Source, toasts Notifier, opts ...Option) *Service {
	s := &Service{
		source:      src,
		toasts:      toasts,
		logger:      logging.Default().WithComponent("dashboard"),
		loc:         time.Local,
		defaultDays: eventlog.DefaultWindowDays,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// EventStats loads, maps and aggregates event logs for a window of days
// (non-positive means the configured default). A source failure is logged,
// reported as an error toast, and answered with the empty fallback.
func (s *Service) EventStats(ctx context.Context, days int) models.EventStats {
	if days < 1 {
		days = s.defaultDays
	}
	days = eventlog.NormalizeDays(days)

	raws, err := s.source.ListEventLogs(ctx)
	degraded := false
	if err != nil {
		s.logger.Error("load event logs failed", "error", err)
		s.toasts.Error(LoadFailedMessage)
		s.countLoad("error")
		raws = nil
		degraded = true
	} else {
		s.countLoad("ok")
	}

	records := eventlog.FromRawList(raws, s.loc)
	daily, dist := eventlog.Aggregate(records, days, s.now(), s.loc)

	if s.metrics != nil {
		s.metrics.EventLogsAggregatedTotal.Add(float64(len(records)))
	}
	s.logger.Debug("event stats built", "records", len(records), "days", days, "degraded", degraded)

	return models.EventStats{
		Days:         days,
		Records:      records,
		Daily:        daily,
		Distribution: dist,
		Degraded:     degraded,
	}
}

func (s *Service) countLoad(result string) {
	if s.metrics != nil {
		s.metrics.DashboardLoadsTotal.WithLabelValues(result).Inc()
	}
}
