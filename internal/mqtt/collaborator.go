package mqtt

import (
	"encoding/json"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/akoul99/channel-viz/internal/geom"
)

// PhysicsCollaborator answers resting-pose queries from poses published by an
// external physics process. Poses arrive retained on
// channelviz/physics/<stage>/<entity> topics and land in a cache; a query
// that misses the cache reports no pose, which leaves the engine on its
// nominal resting position.
type PhysicsCollaborator struct {
	mu     sync.RWMutex
	client *Client
	poses  map[string]geom.Vec3
}

// NewPhysicsCollaborator creates a collaborator with an empty pose cache.
func NewPhysicsCollaborator(client *Client) *PhysicsCollaborator {
	return &PhysicsCollaborator{
		client: client,
		poses:  make(map[string]geom.Vec3),
	}
}

// Subscribe subscribes to the physics pose topics. Retained poses arrive as
// soon as the subscription is established.
func (p *PhysicsCollaborator) Subscribe() error {
	return p.client.Subscribe("channelviz/physics/+/+", p.handle)
}

// handle caches one published pose. Malformed topics and payloads are
// dropped; a stale or missing pose only means the nominal fallback is used.
func (p *PhysicsCollaborator) handle(client paho.Client, msg paho.Message) {
	parts := strings.Split(msg.Topic(), "/")
	if len(parts) != 4 {
		return
	}
	stageID, entityID := parts[2], parts[3]

	var pose geom.Vec3
	if err := json.Unmarshal(msg.Payload(), &pose); err != nil {
		return
	}

	p.Record(stageID, entityID, pose)
}

// Record caches a resting pose directly, bypassing the broker.
func (p *PhysicsCollaborator) Record(stageID, entityID string, pose geom.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.poses[stageID+"/"+entityID] = pose
}

// RestingPose returns the cached pose for the entity at the stage, or
// (nominal, false) when no pose has been published.
func (p *PhysicsCollaborator) RestingPose(entityID, stageID string, nominal geom.Vec3) (geom.Vec3, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if pose, ok := p.poses[stageID+"/"+entityID]; ok {
		return pose, true
	}
	return nominal, false
}

// PoseCount returns the number of cached poses.
func (p *PhysicsCollaborator) PoseCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.poses)
}
