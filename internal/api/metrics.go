package api

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/akoul99/channel-viz/internal/events"
	"github.com/akoul99/channel-viz/internal/version"
)

// Metrics state
var (
	metricsState = &MetricsState{}
)

// MetricsState holds runtime metrics for the /metrics endpoint.
type MetricsState struct {
	mu                sync.RWMutex
	startTime         time.Time
	scenarioName      string
	postgresConnected bool
}

// InitMetrics initializes the metrics system. Must be called at startup.
func InitMetrics() {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.startTime = time.Now()
}

// SetScenarioName sets the scenario name for metrics labels.
func SetScenarioName(name string) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.scenarioName = name
}

// SetPostgresConnected records whether event persistence is up.
func SetPostgresConnected(connected bool) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.postgresConnected = connected
}

// metricsHandler returns Prometheus-compatible metrics in text format.
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Gather metrics
	metricsState.mu.RLock()
	startTime := metricsState.startTime
	scenarioName := metricsState.scenarioName
	postgresConnected := metricsState.postgresConnected
	metricsState.mu.RUnlock()

	uptime := time.Since(startTime).Seconds()
	eventsTotal := events.TotalCount()
	wsClients := events.SubscriberCount()

	timelineEntities := 0
	timelineFrameEnd := 0
	if timeline != nil {
		timelineEntities = len(timeline.Entities())
		timelineFrameEnd = timeline.FrameEnd()
	}

	postgresConnectedVal := 0
	if postgresConnected {
		postgresConnectedVal = 1
	}

	// Get hostname for instance label
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	// Build Prometheus text format response
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Helper to write metric with optional labels
	writeMetric := func(name, mtype, help string, value interface{}, labels string) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		if labels != "" {
			fmt.Fprintf(w, "%s{%s} %v\n", name, labels, value)
		} else {
			fmt.Fprintf(w, "%s %v\n", name, value)
		}
	}

	// Common labels
	labels := fmt.Sprintf(`scenario="%s",instance="%s",version="%s"`, scenarioName, hostname, version.Version)

	// Uptime
	writeMetric("channelviz_uptime_seconds", "gauge",
		"Number of seconds since the API server started", uptime, labels)

	// Timeline entities
	writeMetric("channelviz_timeline_entities", "gauge",
		"Number of entities in the loaded timeline", timelineEntities, labels)

	// Timeline frame end
	writeMetric("channelviz_timeline_frame_end", "gauge",
		"Highest frame in the loaded timeline", timelineFrameEnd, labels)

	// Events total
	writeMetric("channelviz_events_total", "counter",
		"Total number of events emitted since startup", eventsTotal, labels)

	// WebSocket clients
	writeMetric("channelviz_ws_clients", "gauge",
		"Number of active WebSocket client connections", wsClients, labels)

	// Postgres connected
	writeMetric("channelviz_postgres_connected", "gauge",
		"Whether PostgreSQL is connected (1) or not (0)", postgresConnectedVal, labels)
}
