package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector()
	if collector == nil {
		t.Fatal("NewCollector() returned nil")
	}
	if collector.Handler() == nil {
		t.Fatal("Handler() returned nil")
	}
}

func TestCollectorExposesMetrics(t *testing.T) {
	collector := NewCollector()

	collector.ObserveRequest("GET", "/api/v1/accounts", 200, 25*time.Millisecond)
	collector.RecordAdminAction("user_banned")
	collector.RecordAgentTask("unit_tests")
	collector.RecordUpstreamFailure("plaid")
	collector.RecordAuditFailure()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	collector.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("scrape returned status %d", w.Code)
	}

	body := w.Body.String()
	expected := []string{
		"http_request_duration_seconds",
		`admin_actions_total{action_type="user_banned"} 1`,
		`agent_tasks_total{task_type="unit_tests"} 1`,
		`upstream_failures_total{provider="plaid"} 1`,
		"admin_audit_failures_total 1",
	}
	for _, metric := range expected {
		if !strings.Contains(body, metric) {
			t.Errorf("scrape output missing %q", metric)
		}
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	first := NewCollector()
	second := NewCollector()

	first.RecordAdminAction("user_banned")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	second.Handler().ServeHTTP(w, req)

	if strings.Contains(w.Body.String(), `action_type="user_banned"`) {
		t.Error("collectors share state; each should own a private registry")
	}
}
