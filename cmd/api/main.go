package main

import (
	"flag"
	"log"

	"github.com/akoul99/channel-viz/internal/api"
	"github.com/akoul99/channel-viz/internal/choreo"
	"github.com/akoul99/channel-viz/internal/config"
	"github.com/akoul99/channel-viz/internal/events"
	"github.com/akoul99/channel-viz/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "scenarios/channel.yaml", "scenario file")
	timelinePath := flag.String("timeline", "timeline.json", "timeline artifact to serve")
	flag.Parse()

	scenario, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load scenario: %v", err)
	}

	api.InitMetrics()
	api.InitTLS()
	api.SetScenarioName(scenario.Scenario.ID)

	artifact, err := choreo.LoadArtifact(*timelinePath)
	if err != nil {
		log.Printf("no timeline loaded (%v), serving events only", err)
	} else {
		api.SetTimeline(artifact.Timeline())
		api.SetRunID(artifact.RunID)

		// Persisted events for the run are served when the database is up;
		// without it only the in-memory stream is available.
		pgPassword, err := config.ResolveSecret("PGPASSWORD")
		if err != nil {
			log.Printf("failed to resolve PGPASSWORD: %v", err)
		}
		if pg, err := postgres.New(artifact.RunID, pgPassword); err != nil {
			log.Printf("postgres unavailable: %v", err)
		} else {
			events.SetPostgresClient(pg)
			api.SetPostgresConnected(true)
			defer pg.Close()
		}
	}

	port := scenario.UIPort()
	if err := api.ListenAndServe(port); err != nil {
		log.Fatalf("api server failed: %v", err)
	}
}
