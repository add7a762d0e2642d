package topology

// Path is an entity's ordered route through the pipeline plus its
// presentation category (for example "read" or "write").
type Path struct {
	Category string
	Stages   []string
}

// AssignPath validates that the requested stage sequence walks defined
// transitions and returns the resulting Path. It returns a *InvalidPathError
// when the sequence is empty, names an unknown stage, or contains a
// consecutive pair with no transition.
func AssignPath(t *Topology, category string, sequence []string) (Path, error) {
	if len(sequence) == 0 {
		return Path{}, &InvalidPathError{Stage: "", From: "", To: ""}
	}

	for _, id := range sequence {
		if t.Stage(id) == nil {
			return Path{}, &InvalidPathError{Stage: id}
		}
	}

	for i := 0; i+1 < len(sequence); i++ {
		if t.TransitionBetween(sequence[i], sequence[i+1]) == nil {
			return Path{}, &InvalidPathError{From: sequence[i], To: sequence[i+1]}
		}
	}

	return Path{Category: category, Stages: append([]string{}, sequence...)}, nil
}

// Terminal reports whether the last stage of the path has no outgoing
// transitions in the topology.
func (p Path) Terminal(t *Topology) bool {
	if len(p.Stages) == 0 {
		return false
	}
	return len(t.outgoing[p.Stages[len(p.Stages)-1]]) == 0
}
