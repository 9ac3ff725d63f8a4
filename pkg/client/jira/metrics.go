package jira

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics name and labels
const (
	MetricsSubsystem   = "jira_outbound"
	MetricsCodeLabel   = "code"
	MetricsMethodLabel = "method"
	MetricsPathLabel   = "path"
)

// labels added to metrics:
var metricsLabels = []string{
	MetricsCodeLabel,
	MetricsMethodLabel,
	MetricsPathLabel,
}

// count metric
var requestCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: MetricsSubsystem,
		Name:      "request_count",
		Help:      "Number of requests sent.",
	},
	metricsLabels,
)

// duration metric
var requestDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: MetricsSubsystem,
		Name:      "request_duration",
		Help:      "Request duration in seconds.",
		Buckets: []float64{
			0.1,
			1.0,
			2.0,
			5.0,
			10.0,
			30.0,
		},
	},
	metricsLabels,
)

// RegisterClientMetrics registers the metrics with the Prometheus library.
func RegisterClientMetrics() error {
	// Register the count metric:
	err := prometheus.Register(requestCountMetric)
	if err != nil {
		registered, ok := err.(prometheus.AlreadyRegisteredError)
		if ok {
			requestCountMetric = registered.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return err
		}
	}

	// Register the duration metric:
	err = prometheus.Register(requestDurationMetric)
	if err != nil {
		registered, ok := err.(prometheus.AlreadyRegisteredError)
		if ok {
			requestDurationMetric = registered.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return err
		}
	}

	return nil
}

func ResetClientMetrics() {
	requestCountMetric.Reset()
	requestDurationMetric.Reset()
}

type metricsRoundTripper struct {
	wrapped http.RoundTripper
}

// RoundTrip calls the wrapped RoundTrip and updates metrics
func (m *metricsRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	before := time.Now()
	response, err := m.wrapped.RoundTrip(request)
	elapsed := time.Since(before)
	code := 0
	if response != nil {
		code = response.StatusCode
	}
	labels := map[string]string{
		MetricsCodeLabel:   strconv.Itoa(code),
		MetricsMethodLabel: request.Method,
		MetricsPathLabel:   reducePath(request.URL.Path),
	}
	requestCountMetric.With(labels).Inc()
	requestDurationMetric.With(labels).Observe(elapsed.Seconds())

	return response, err
}

// reducePath keeps the first path element after the REST prefix so issue
// keys do not explode label cardinality.
func reducePath(path string) string {
	rest := path
	if i := strings.Index(path, restPrefix); i >= 0 {
		rest = path[i+len(restPrefix):]
	}
	for _, part := range strings.Split(rest, "/") {
		if part != "" {
			return "/" + part
		}
	}
	return "/"
}
