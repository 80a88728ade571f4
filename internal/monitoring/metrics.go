package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector handles metrics collection and reporting
type Collector struct {
	registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	adminActions     *prometheus.CounterVec
	agentTasks       *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	auditFailures    prometheus.Counter
}

// NewCollector creates a new metrics collector on a private registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	adminActions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_actions_total",
			Help: "Privileged admin mutations by action type",
		},
		[]string{"action_type"},
	)

	agentTasks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_tasks_total",
			Help: "Simulated agent task invocations by task type",
		},
		[]string{"task_type"},
	)

	upstreamFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_failures_total",
			Help: "Failed calls to third-party data providers",
		},
		[]string{"provider"},
	)

	auditFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_audit_failures_total",
			Help: "Audit log inserts that failed after the primary mutation committed",
		},
	)

	registry.MustRegister(requestDuration, adminActions, agentTasks, upstreamFailures, auditFailures)

	return &Collector{
		registry:         registry,
		requestDuration:  requestDuration,
		adminActions:     adminActions,
		agentTasks:       agentTasks,
		upstreamFailures: upstreamFailures,
		auditFailures:    auditFailures,
	}
}

// ObserveRequest records one served HTTP request
func (c *Collector) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	c.requestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RecordAdminAction counts one privileged mutation
func (c *Collector) RecordAdminAction(actionType string) {
	c.adminActions.WithLabelValues(actionType).Inc()
}

// RecordAgentTask counts one simulated task invocation
func (c *Collector) RecordAgentTask(taskType string) {
	c.agentTasks.WithLabelValues(taskType).Inc()
}

// RecordUpstreamFailure counts one failed provider call
func (c *Collector) RecordUpstreamFailure(provider string) {
	c.upstreamFailures.WithLabelValues(provider).Inc()
}

// RecordAuditFailure counts one best-effort audit insert that was lost
func (c *Collector) RecordAuditFailure() {
	c.auditFailures.Inc()
}

// Handler returns the scrape handler for the metrics listener
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
