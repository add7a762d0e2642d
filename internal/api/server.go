// Package api serves a synthesized timeline and the live event stream to
// presentation collaborators over HTTP and WebSocket. It reads the timeline
// only; synthesis is finished before the server starts.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/akoul99/channel-viz/internal/choreo"
	"github.com/akoul99/channel-viz/internal/events"
)

// TimelineSource is the read-only view of a synthesized run served by the
// API.
type TimelineSource interface {
	Entities() []string
	Samples(entityID string) []choreo.PoseSample
	FrameEnd() int
}

var (
	timeline TimelineSource
	runID    string
)

// SetTimeline sets the timeline served by the API. Must be called before
// the server starts.
func SetTimeline(tl TimelineSource) {
	timeline = tl
}

// SetRunID sets the run id reported by the API.
func SetRunID(id string) {
	runID = id
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	resp := HealthResponse{
		Status:    "ok",
		Service:   "api",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events.Snapshot())
}

// eventsHistoryHandler serves persisted events for the loaded run. Without a
// database it reports 503; the in-memory /events endpoint still works.
func eventsHistoryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	client := events.GetPostgresClient()
	if client == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "event persistence not configured"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}

	rows, err := client.Query(limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

type TimelineSummary struct {
	RunID    string   `json:"run_id"`
	FrameEnd int      `json:"frame_end"`
	Entities []string `json:"entities"`
}

type EntityTimelineResponse struct {
	EntityID string              `json:"entity_id"`
	Samples  []choreo.PoseSample `json:"samples"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func timelinesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if timeline == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "no timeline loaded"})
		return
	}

	_ = json.NewEncoder(w).Encode(TimelineSummary{
		RunID:    runID,
		FrameEnd: timeline.FrameEnd(),
		Entities: timeline.Entities(),
	})
}

func timelineEntityHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if timeline == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "no timeline loaded"})
		return
	}

	entityID := strings.TrimPrefix(r.URL.Path, "/timelines/")
	if entityID == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "entity id required"})
		return
	}

	samples := timeline.Samples(entityID)
	if samples == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "entity not found: " + entityID})
		return
	}

	_ = json.NewEncoder(w).Encode(EntityTimelineResponse{
		EntityID: entityID,
		Samples:  samples,
	})
}

// ListenAndServe starts the API server on the given port.
// It blocks until the server exits.
func ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ui", uiHandler)
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/events", eventsHandler)
	mux.HandleFunc("/events/ws", wsEventsHandler)
	mux.HandleFunc("/events/history", eventsHistoryHandler)
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/timelines", timelinesHandler)
	mux.HandleFunc("/timelines/", timelineEntityHandler)

	addr := fmt.Sprintf(":%d", port)

	if IsTLSEnabled() {
		srv := &http.Server{
			Addr:      addr,
			Handler:   mux,
			TLSConfig: LoadTLSConfig(),
		}
		log.Printf("API listening on %s (TLS)\n", addr)
		return srv.ListenAndServeTLS(tlsConfig.CertFile, tlsConfig.KeyFile)
	}

	log.Printf("API listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}
