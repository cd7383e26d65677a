// Package promexporter exposes resp client statistics as Prometheus metrics.
package promexporter

import (
	"net/http"

	"github.com/pior/resp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector reads the client statistics at scrape time.
type Collector struct {
	client *resp.Client

	commands       *prometheus.Desc
	commandErrors  *prometheus.Desc
	failureReplies *prometheus.Desc
	commandSeconds *prometheus.Desc

	circuitState    *prometheus.Desc
	circuitRequests *prometheus.Desc
	circuitFailures *prometheus.Desc

	connsActive  *prometheus.Desc
	connsMax     *prometheus.Desc
	connsCreated *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for client. Register it with a
// prometheus.Registry.
func NewCollector(client *resp.Client) *Collector {
	return &Collector{
		client: client,

		commands: prometheus.NewDesc(
			"resp_commands_total",
			"Total number of commands sent to the store",
			nil, nil,
		),
		commandErrors: prometheus.NewDesc(
			"resp_command_errors_total",
			"Commands that returned an error, by cause",
			[]string{"cause"}, nil, // transport, oversized, incomplete, malformed, other
		),
		failureReplies: prometheus.NewDesc(
			"resp_failure_replies_total",
			"Well-formed failure replies returned by the store",
			nil, nil,
		),
		commandSeconds: prometheus.NewDesc(
			"resp_command_duration_seconds_total",
			"Total time spent in commands",
			nil, nil,
		),

		circuitState: prometheus.NewDesc(
			"resp_circuit_breaker_state",
			"Circuit breaker state (0=closed, 1=half-open, 2=open)",
			[]string{"server"}, nil,
		),
		circuitRequests: prometheus.NewDesc(
			"resp_circuit_breaker_requests",
			"Number of requests tracked by circuit breaker",
			[]string{"server"}, nil,
		),
		circuitFailures: prometheus.NewDesc(
			"resp_circuit_breaker_failures",
			"Circuit breaker failure counts",
			[]string{"server", "type"}, nil, // total, consecutive
		),

		connsActive: prometheus.NewDesc(
			"resp_connections_active",
			"Connections currently carrying a command",
			[]string{"server"}, nil,
		),
		connsMax: prometheus.NewDesc(
			"resp_connections_max",
			"Configured cap on simultaneous connections",
			[]string{"server"}, nil,
		),
		connsCreated: prometheus.NewDesc(
			"resp_connections_created_total",
			"Connections dialed through the cap",
			[]string{"server"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commands
	ch <- c.commandErrors
	ch <- c.failureReplies
	ch <- c.commandSeconds
	ch <- c.circuitState
	ch <- c.circuitRequests
	ch <- c.circuitFailures
	ch <- c.connsActive
	ch <- c.connsMax
	ch <- c.connsCreated
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.client.Stats()

	ch <- prometheus.MustNewConstMetric(c.commands, prometheus.CounterValue, float64(stats.Commands))
	ch <- prometheus.MustNewConstMetric(c.failureReplies, prometheus.CounterValue, float64(stats.FailureReplies))
	ch <- prometheus.MustNewConstMetric(c.commandSeconds, prometheus.CounterValue, float64(stats.TotalTimeNs)/1e9)

	for cause, n := range map[string]uint64{
		"transport":  stats.TransportErrors,
		"oversized":  stats.OversizedReplies,
		"incomplete": stats.IncompleteReplies,
		"malformed":  stats.MalformedReplies,
		"other":      stats.OtherErrors,
	} {
		ch <- prometheus.MustNewConstMetric(c.commandErrors, prometheus.CounterValue, float64(n), cause)
	}

	for _, srv := range c.client.AllServerStats() {
		ch <- prometheus.MustNewConstMetric(c.circuitState, prometheus.GaugeValue, float64(srv.CircuitBreakerState), srv.Addr)
		ch <- prometheus.MustNewConstMetric(c.circuitRequests, prometheus.GaugeValue, float64(srv.CircuitBreakerCounts.Requests), srv.Addr)
		ch <- prometheus.MustNewConstMetric(c.circuitFailures, prometheus.GaugeValue, float64(srv.CircuitBreakerCounts.TotalFailures), srv.Addr, "total")
		ch <- prometheus.MustNewConstMetric(c.circuitFailures, prometheus.GaugeValue, float64(srv.CircuitBreakerCounts.ConsecutiveFailures), srv.Addr, "consecutive")

		if srv.Gate.MaxConns > 0 {
			ch <- prometheus.MustNewConstMetric(c.connsActive, prometheus.GaugeValue, float64(srv.Gate.ActiveConns), srv.Addr)
			ch <- prometheus.MustNewConstMetric(c.connsMax, prometheus.GaugeValue, float64(srv.Gate.MaxConns), srv.Addr)
			ch <- prometheus.MustNewConstMetric(c.connsCreated, prometheus.CounterValue, float64(srv.Gate.CreatedConns), srv.Addr)
		}
	}
}

// Handler returns an HTTP handler serving the client metrics on a dedicated
// registry.
func Handler(client *resp.Client) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(client))
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
