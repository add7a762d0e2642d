package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/akoul99/channel-viz/internal/choreo"
	"github.com/akoul99/channel-viz/internal/events"
	"github.com/akoul99/channel-viz/internal/geom"
	"github.com/akoul99/channel-viz/internal/topology"
)

// Publisher pushes one run's scene metadata and timeline to the broker.
// Stage metadata is retained so renderers joining later still see the
// layout; pose samples are published once per entity.
type Publisher struct {
	client *Client
	runID  string
}

func NewPublisher(client *Client, runID string) *Publisher {
	return &Publisher{client: client, runID: runID}
}

// stagePayload is the static per-stage metadata consumed by geometry and
// material collaborators. It never includes timeline data.
type stagePayload struct {
	ID       string    `json:"id"`
	Label    string    `json:"label,omitempty"`
	Sublabel string    `json:"sublabel,omitempty"`
	Color    string    `json:"color,omitempty"`
	Center   geom.Vec3 `json:"center"`
	Size     geom.Vec3 `json:"size"`
	Physics  bool      `json:"physics"`
}

// entityPayload is one entity's complete ordered sample list.
type entityPayload struct {
	EntityID string              `json:"entity_id"`
	Samples  []choreo.PoseSample `json:"samples"`
}

// PublishScene publishes retained stage metadata topics.
func (p *Publisher) PublishScene(topo *topology.Topology) error {
	for _, stage := range topo.Stages() {
		payload, err := json.Marshal(stagePayload{
			ID:       stage.ID,
			Label:    stage.Label,
			Sublabel: stage.Sublabel,
			Color:    stage.Color,
			Center:   stage.Region.Center,
			Size:     stage.Region.Size,
			Physics:  stage.PhysicsEligible,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal stage %s: %w", stage.ID, err)
		}
		topic := fmt.Sprintf("channelviz/%s/stage/%s", p.runID, stage.ID)
		if err := p.client.Publish(topic, payload, true); err != nil {
			return fmt.Errorf("failed to publish stage %s: %w", stage.ID, err)
		}
	}
	return nil
}

// PublishTimeline publishes every entity's sample list. Failures are
// reported through events and the returned error; the timeline itself is
// never modified.
func (p *Publisher) PublishTimeline(tl *choreo.Timeline) error {
	entityIDs := tl.Entities()
	events.Emit("info", "publish.started", "", map[string]interface{}{
		"run_id":   p.runID,
		"entities": len(entityIDs),
	})

	for _, id := range entityIDs {
		payload, err := json.Marshal(entityPayload{
			EntityID: id,
			Samples:  tl.Samples(id),
		})
		if err != nil {
			events.Emit("error", "publish.error", err.Error(), map[string]interface{}{
				"entity_id": id,
			})
			return fmt.Errorf("failed to marshal entity %s: %w", id, err)
		}
		topic := fmt.Sprintf("channelviz/%s/entity/%s/pose", p.runID, id)
		if err := p.client.Publish(topic, payload, false); err != nil {
			events.Emit("error", "publish.error", err.Error(), map[string]interface{}{
				"entity_id": id,
			})
			return fmt.Errorf("failed to publish entity %s: %w", id, err)
		}
	}

	events.Emit("info", "publish.completed", "", map[string]interface{}{
		"run_id":    p.runID,
		"entities":  len(entityIDs),
		"frame_end": tl.FrameEnd(),
	})
	return nil
}
