package events

import (
	"encoding/json"
	"testing"
)

func TestValidateKnownEvents(t *testing.T) {
	for _, name := range []string{
		"scenario.loaded",
		"synthesis.started",
		"entity.synthesized",
		"handoff.fallback",
		"publish.completed",
		"system.error",
	} {
		if err := Validate(name); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", name, err)
		}
	}
}

func TestValidateUnknownEvent(t *testing.T) {
	if err := Validate("entity.teleported"); err == nil {
		t.Error("expected error for unknown event name")
	}
}

func TestEmitRejectsUnknownEvent(t *testing.T) {
	Clear()

	if _, err := Emit("info", "not.registered", "", nil); err == nil {
		t.Error("expected Emit to reject an unregistered event")
	}
	if len(Snapshot()) != 0 {
		t.Error("rejected event must not reach the buffer")
	}
}

func TestEmitProducesJSON(t *testing.T) {
	Clear()

	b, err := Emit("warn", "handoff.fallback", "physics collaborator absent", map[string]interface{}{
		"entity_id": "write_3",
		"stage_id":  "dram",
	})
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("Emit output is not valid JSON: %v", err)
	}
	if e.Name != "handoff.fallback" || e.Level != "warn" {
		t.Errorf("event = %+v", e)
	}
	if e.Timestamp == "" {
		t.Error("expected a timestamp")
	}
	if e.Fields["entity_id"] != "write_3" {
		t.Errorf("fields = %v", e.Fields)
	}

	snap := Snapshot()
	if len(snap) != 1 || snap[0].Name != "handoff.fallback" {
		t.Errorf("buffer snapshot = %v", snap)
	}
}

func TestEmitIncrementsTotalCount(t *testing.T) {
	before := TotalCount()

	if _, err := Emit("info", "synthesis.started", "", nil); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if _, err := Emit("info", "synthesis.completed", "", nil); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	if got := TotalCount(); got != before+2 {
		t.Errorf("TotalCount = %d, want %d", got, before+2)
	}
}
