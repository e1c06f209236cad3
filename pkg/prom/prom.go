package prom

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	xhttp "github.com/subtrack/reminder-gateway/pkg/http"
	"github.com/subtrack/reminder-gateway/pkg/logger"
)

const (
	SystemScheduler = "scheduler"
)

const (
	MetricTicks              = "ticks_total"
	MetricRemindersSent      = "reminders_sent_total"
	MetricRemindersFailed    = "reminders_failed_total"
	MetricDigestsSent        = "digests_sent_total"
	MetricTrialDeactivations = "trial_deactivations_total"
	MetricDispatchDuration   = "dispatch_duration_seconds"
)

var (
	createMu  sync.Mutex
	namespace = "none"

	Enabled bool

	counters      = make(map[string]prometheus.Counter)
	counterVecs   = make(map[string]*prometheus.CounterVec)
	histogramVecs = make(map[string]*prometheus.HistogramVec)

	defaultLabels prometheus.Labels
)

// Create registers the scheduler metric set. host and env become constant
// labels on everything.
func Create(host string, env string, nameSpace string) error {
	createMu.Lock()
	defer createMu.Unlock()

	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	Enabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounter(SystemScheduler, MetricTicks))
	hasError(createCounterVec(SystemScheduler, MetricRemindersSent, []string{"category"}))
	hasError(createCounterVec(SystemScheduler, MetricRemindersFailed, []string{"category"}))
	hasError(createCounter(SystemScheduler, MetricDigestsSent))
	hasError(createCounter(SystemScheduler, MetricTrialDeactivations))
	hasError(createHistogramVec(SystemScheduler, MetricDispatchDuration, []string{"category"}))

	return err
}

func createCounter(system, name string) error {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   system,
		Name:        name,
		ConstLabels: defaultLabels,
	})
	if err := prometheus.Register(c); err != nil {
		return err
	}
	counters[system+name] = c
	return nil
}

func createCounterVec(system, name string, labels []string) error {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   system,
		Name:        name,
		ConstLabels: defaultLabels,
	}, labels)
	if err := prometheus.Register(c); err != nil {
		return err
	}
	counterVecs[system+name] = c
	return nil
}

func createHistogramVec(system, name string, labels []string) error {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   system,
		Name:        name,
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels)
	if err := prometheus.Register(h); err != nil {
		return err
	}
	histogramVecs[system+name] = h
	return nil
}

func IncTick() {
	if !Enabled {
		return
	}
	counters[SystemScheduler+MetricTicks].Inc()
}

func IncReminderSent(category string) {
	if !Enabled {
		return
	}
	counterVecs[SystemScheduler+MetricRemindersSent].WithLabelValues(category).Inc()
}

func IncReminderFailed(category string) {
	if !Enabled {
		return
	}
	counterVecs[SystemScheduler+MetricRemindersFailed].WithLabelValues(category).Inc()
}

func IncDigestSent() {
	if !Enabled {
		return
	}
	counters[SystemScheduler+MetricDigestsSent].Inc()
}

func IncTrialDeactivation() {
	if !Enabled {
		return
	}
	counters[SystemScheduler+MetricTrialDeactivations].Inc()
}

func ObserveDispatchDuration(seconds float64, category string) {
	if !Enabled {
		return
	}
	histogramVecs[SystemScheduler+MetricDispatchDuration].WithLabelValues(category).Observe(seconds)
}

// ListenAndServer serves /metrics (or uri) plus a trivial /healthz on addr.
func ListenAndServer(addr string, uri string) {
	if uri == "" {
		uri = "/metrics"
	}
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())

	r := xhttp.NewRouter()
	r.GET(uri, h)
	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})

	if err := xhttp.Serve(addr, r); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}
