package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/akoul99/channel-viz/internal/choreo"
	"github.com/akoul99/channel-viz/internal/config"
	"github.com/akoul99/channel-viz/internal/events"
	"github.com/akoul99/channel-viz/internal/mqtt"
	"github.com/akoul99/channel-viz/internal/storage/postgres"
	"github.com/akoul99/channel-viz/internal/topology"
	"github.com/akoul99/channel-viz/internal/version"
)

type LogLine struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Event     string                 `json:"event"`
	Message   string                 `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func logEvent(level, event, msg string, fields map[string]interface{}) {
	line := LogLine{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Event:     event,
		Message:   msg,
		Fields:    fields,
	}
	b, _ := json.Marshal(line)
	fmt.Println(string(b))
}

func main() {
	configPath := flag.String("config", "scenarios/channel.yaml", "scenario file to synthesize")
	outPath := flag.String("out", "timeline.json", "path for the timeline artifact")
	publish := flag.Bool("publish", false, "publish the scene and timeline over MQTT")
	physics := flag.Bool("physics", false, "use resting poses from the MQTT physics collaborator")
	workers := flag.Int("workers", 0, "synthesis worker count (0 = NumCPU)")
	seed := flag.Int64("seed", 0, "override the scenario seed (0 = use scenario)")
	flag.Parse()

	hostname, _ := os.Hostname()
	runID := uuid.New().String()

	logEvent("info", "system.startup", "choreographer starting", map[string]interface{}{
		"service":  "choreographer",
		"hostname": hostname,
		"pid":      os.Getpid(),
		"version":  version.Version,
		"run_id":   runID,
	})

	scenario, err := config.Load(*configPath)
	if err != nil {
		logEvent("error", "system.error", "failed to load scenario", map[string]interface{}{
			"path":  *configPath,
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Event persistence is optional; synthesis runs unchanged without it.
	pgPassword, err := config.ResolveSecret("PGPASSWORD")
	if err != nil {
		logEvent("warn", "system.error", "failed to resolve PGPASSWORD", map[string]interface{}{
			"error": err.Error(),
		})
	}
	pgClient, err := postgres.New(runID, pgPassword)
	if err != nil {
		logEvent("warn", "system.error", "postgres unavailable, events stay in memory", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		events.SetPostgresClient(pgClient)
		defer pgClient.Close()
	}

	events.Emit("info", "scenario.loaded", "", map[string]interface{}{
		"scenario": scenario.Scenario.ID,
		"name":     scenario.Scenario.Name,
		"stages":   len(scenario.Stages),
		"entities": len(scenario.Entities),
	})

	topo, err := topology.Build(scenario.TopologyStages(), scenario.TopologyTransitions())
	if err != nil {
		logEvent("error", "system.error", "invalid topology", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	events.Emit("info", "topology.built", "", map[string]interface{}{
		"stages":  len(topo.Stages()),
		"entries": topo.Entries(),
		"exits":   topo.Exits(),
	})

	pol, err := scenario.Policy()
	if err != nil {
		logEvent("error", "system.error", "invalid policy", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	runSeed := scenario.Seed
	if *seed != 0 {
		runSeed = *seed
	}

	entities, skipped := choreo.Schedule(topo, scenario.GenerationRules(), runSeed)
	for _, serr := range skipped {
		logEvent("warn", "entity.invalid", serr.Error(), nil)
	}
	if len(entities) == 0 {
		logEvent("error", "system.error", "no valid entities to synthesize", nil)
		os.Exit(1)
	}

	synth := choreo.NewSynthesizer(topo, pol)
	synth.SetEmbellisher(scenario.Embellisher())
	if *workers > 0 {
		synth.SetWorkers(*workers)
	}

	var client *mqtt.Client
	if *physics || *publish {
		client = mqtt.NewClient("choreographer-" + runID)
		if err := client.Connect(); err != nil {
			logEvent("error", "publish.error", "mqtt connect failed", map[string]interface{}{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer client.Disconnect()
	}

	if *physics {
		collab := mqtt.NewPhysicsCollaborator(client)
		if err := collab.Subscribe(); err != nil {
			logEvent("warn", "system.error", "physics subscribe failed, dwells stay scripted", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			// Retained poses arrive right after the subscription lands.
			time.Sleep(500 * time.Millisecond)
			synth.SetCollaborator(collab)
			logEvent("info", "system.startup", "physics collaborator ready", map[string]interface{}{
				"poses": collab.PoseCount(),
			})
		}
	}

	timeline := synth.Synthesize(entities)

	artifact := choreo.NewArtifact(runID, scenario.Scenario.ID, scenario.FPS(), timeline)
	if err := artifact.WriteFile(*outPath); err != nil {
		logEvent("error", "system.error", "failed to write timeline", map[string]interface{}{
			"path":  *outPath,
			"error": err.Error(),
		})
		os.Exit(1)
	}
	logEvent("info", "synthesis.completed", "timeline written", map[string]interface{}{
		"path":      *outPath,
		"run_id":    runID,
		"entities":  len(timeline.Entities()),
		"frame_end": timeline.FrameEnd(),
		"seed":      runSeed,
	})

	if *publish {
		pub := mqtt.NewPublisher(client, runID)
		if err := pub.PublishScene(topo); err != nil {
			logEvent("error", "publish.error", err.Error(), nil)
			os.Exit(1)
		}
		if err := pub.PublishTimeline(timeline); err != nil {
			logEvent("error", "publish.error", err.Error(), nil)
			os.Exit(1)
		}
	}

	events.Emit("info", "system.shutdown", "choreographer finished", map[string]interface{}{
		"run_id": runID,
	})
}
