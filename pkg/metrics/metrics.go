package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	AppointmentsCreated  prometheus.Counter
	AppointmentsMoved    prometheus.Counter
	SlotConflicts        *prometheus.CounterVec
	RemindersSent        *prometheus.CounterVec
	NotificationsDropped *prometheus.CounterVec
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном registerer
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		AppointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "appointments_created_total",
			Help:        "Appointments successfully booked",
			ConstLabels: constLabels,
		}),

		AppointmentsMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "appointments_rescheduled_total",
			Help:        "Appointments successfully rescheduled",
			ConstLabels: constLabels,
		}),

		SlotConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_conflicts_total",
			Help:        "Write-time slot conflicts by operation",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		RemindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_total",
			Help:        "Reminder deliveries by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		NotificationsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_dropped_total",
			Help:        "Best-effort notifications that failed to deliver",
			ConstLabels: constLabels,
		}, []string{"channel"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.AppointmentsCreated,
		m.AppointmentsMoved,
		m.SlotConflicts,
		m.RemindersSent,
		m.NotificationsDropped,
	)

	return m
}

// Методы-рекордеры. Безопасны для вызова на nil *Metrics (метрики выключены).

func (m *Metrics) IncAppointmentsCreated() {
	if m == nil {
		return
	}
	m.AppointmentsCreated.Inc()
}

func (m *Metrics) IncAppointmentsRescheduled() {
	if m == nil {
		return
	}
	m.AppointmentsMoved.Inc()
}

func (m *Metrics) IncSlotConflict(operation string) {
	if m == nil {
		return
	}
	m.SlotConflicts.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncReminder(result string) {
	if m == nil {
		return
	}
	m.RemindersSent.WithLabelValues(result).Inc()
}

func (m *Metrics) IncNotificationDropped(channel string) {
	if m == nil {
		return
	}
	m.NotificationsDropped.WithLabelValues(channel).Inc()
}
