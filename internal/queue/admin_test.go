package queue

import (
	"net/http"
	"testing"
)

func TestEvaluateHealth(t *testing.T) {
	tests := []struct {
		name     string
		brokerUp bool
		storeUp  bool
		metrics  Metrics
		want     string
	}{
		{"all up, idle queue", true, true, Metrics{}, StatusHealthy},
		{"all up, modest backlog", true, true, Metrics{Waiting: 500}, StatusHealthy},
		{"broker down", false, true, Metrics{}, StatusUnhealthy},
		{"broker down trumps everything", false, false, Metrics{Waiting: 99999}, StatusUnhealthy},
		{"store down", true, false, Metrics{}, StatusDegraded},
		{"waiting backlog too deep", true, true, Metrics{Waiting: backlogDegradedAt + 1}, StatusDegraded},
		{"too many failed jobs", true, true, Metrics{Failed: failedDegradedAt + 1}, StatusDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateHealth(tt.brokerUp, tt.storeUp, tt.metrics); got != tt.want {
				t.Errorf("evaluateHealth = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHealthStatusCode(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{StatusHealthy, http.StatusOK},
		{StatusDegraded, http.StatusPartialContent},
		{StatusUnhealthy, http.StatusServiceUnavailable},
		{"garbage", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		if got := HealthStatusCode(tt.status); got != tt.want {
			t.Errorf("HealthStatusCode(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestExpiredBefore(t *testing.T) {
	entries := []jobAge{
		{ID: "newest", FinishedAt: 5000},
		{ID: "oldest", FinishedAt: 1000},
		{ID: "middle", FinishedAt: 3000},
		{ID: "unknown", FinishedAt: 0},
	}

	t.Run("cutoff excludes fresh jobs", func(t *testing.T) {
		got := expiredBefore(entries, 3000, 100)
		want := []string{"unknown", "oldest", "middle"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("removed[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("limit caps removals oldest first", func(t *testing.T) {
		got := expiredBefore(entries, 10000, 2)
		want := []string{"unknown", "oldest"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("removed[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("zero grace removes everything terminal", func(t *testing.T) {
		got := expiredBefore(entries, 99999, 0)
		if len(got) != len(entries) {
			t.Errorf("got %d removals, want %d", len(got), len(entries))
		}
	})
}
