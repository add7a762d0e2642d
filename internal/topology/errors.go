package topology

// ConfigError indicates a malformed topology. It is fatal at build time;
// synthesis must not proceed past it.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "topology config error: " + e.Reason
}

// InvalidPathError indicates an assigned path is empty, names an unknown
// stage, or contains a stage pair with no defined transition. It is fatal
// for the offending entity only.
type InvalidPathError struct {
	Stage string
	From  string
	To    string
}

func (e *InvalidPathError) Error() string {
	switch {
	case e.Stage != "":
		return "invalid path: unknown stage " + e.Stage
	case e.From != "" || e.To != "":
		return "invalid path: no transition " + e.From + " -> " + e.To
	default:
		return "invalid path: empty stage sequence"
	}
}
