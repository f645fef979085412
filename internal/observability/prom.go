package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// DB
	DbQueryDuration *prometheus.HistogramVec
	DbErrorsTotal   *prometheus.CounterVec

	// storefront
	CatalogFallbacks prometheus.Counter
	PurchasesTotal   *prometheus.CounterVec

	// notices (worker)
	NoticeDuration *prometheus.HistogramVec
	NoticeResults  *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coursehub",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "coursehub",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "coursehub",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		DbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "coursehub",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		DbErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coursehub",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		CatalogFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "coursehub",
				Subsystem: "catalog",
				Name:      "seed_fallbacks_total",
				Help:      "Catalog loads that substituted the built-in seed set.",
			},
		),
		PurchasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coursehub",
				Subsystem: "purchases",
				Name:      "total",
				Help:      "Confirmed purchases by persistence outcome.",
			},
			[]string{"outcome"}, // persisted|session_only|insert_failed
		),
		NoticeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "coursehub",
				Subsystem: "notices",
				Name:      "duration_seconds",
				Help:      "Checkout notice delivery duration by result",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"notice_type", "result"},
		),
		NoticeResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coursehub",
				Subsystem: "notices",
				Name:      "results_total",
				Help:      "Checkout notice outcomes by type and result.",
			},
			[]string{"notice_type", "result"}, // result=done|retry|failed
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.DbQueryDuration, p.DbErrorsTotal,
		p.CatalogFallbacks, p.PurchasesTotal,
		p.NoticeDuration, p.NoticeResults,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}
