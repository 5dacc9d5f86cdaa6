package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	e.do(t, "POST", "/api/appointments", map[string]any{
		"customerName": "Dee", "customerPhone": "555-3", "serviceId": 1, "appointmentDate": "2025-08-01",
	}, "")

	resp, body := e.do(t, "GET", "/metrics", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: %d", resp.StatusCode)
	}
	for _, want := range []string{
		`bizbook_booking_requests_total{result="ok"}`,
		`bizbook_http_requests_total{method="POST",route="/api/appointments",status="201"}`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %s", want)
		}
	}
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	resp, body := e.do(t, "GET", "/healthz", nil, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok":true`) {
		t.Fatalf("healthz: %d %s", resp.StatusCode, body)
	}
}
