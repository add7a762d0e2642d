package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// configuration
	"scenario.loaded": {},
	"topology.built":  {},

	// synthesis
	"synthesis.started":   {},
	"synthesis.completed": {},

	// entity
	"entity.synthesized": {},
	"entity.invalid":     {},

	// physics handoff
	"handoff.ceded":    {},
	"handoff.resumed":  {},
	"handoff.fallback": {},

	// presentation bridge
	"publish.started":   {},
	"publish.completed": {},
	"publish.error":     {},

	// system
	"system.startup":  {},
	"system.shutdown": {},
	"system.error":    {},
}

func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}
