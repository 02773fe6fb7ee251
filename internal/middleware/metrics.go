package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

type httpMetrics struct {
	totalRequests    *prometheus.CounterVec
	durationSec      *prometheus.HistogramVec
	inflightRequests *prometheus.GaugeVec
}

// Metrics counts requests per matched route, method and status code. Errors
// returned down the chain are rendered here so the recorded code matches the
// response.
func Metrics(reg prometheus.Registerer, namespace string) fiber.Handler {
	m := newHTTPMetrics(reg, namespace, "http")

	return func(c *fiber.Ctx) error {
		s := time.Now()
		method := c.Method()

		m.inflightRequests.WithLabelValues(method).Inc()
		defer m.inflightRequests.WithLabelValues(method).Dec()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := "<unmatched>"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}

		labels := []string{route, method, strconv.Itoa(c.Response().StatusCode())}
		m.totalRequests.WithLabelValues(labels...).Inc()
		m.durationSec.WithLabelValues(labels...).Observe(time.Since(s).Seconds())
		return nil
	}
}

func newHTTPMetrics(reg prometheus.Registerer, namespace, subsystem string) *httpMetrics {
	labels := []string{"route", "method", "code"}

	t := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "Total number of requests",
	}, labels)
	d := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_duration",
		Help:      "Duration of requests",
		Buckets: []float64{
			0.005, 0.01, 0.025, 0.05, 0.1,
			0.25, 0.5, 1, 2, 5,
		},
	}, labels)
	i := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_inflight",
		Help:      "Number of inflight requests",
	}, []string{"method"})

	reg.MustRegister(t, d, i)

	return &httpMetrics{
		totalRequests:    t,
		durationSec:      d,
		inflightRequests: i,
	}
}
