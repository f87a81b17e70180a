// Package capability models optional runtime dependencies whose availability
// is decided once at startup.
package capability

import (
	"encoding/json"
	"log/slog"
)

// State reports whether an optional dependency is usable.
type State int

const (
	Unavailable State = iota
	Available
)

func (s State) String() string {
	if s == Available {
		return "available"
	}
	return "unavailable"
}

// MarshalJSON encodes the state as its string form.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Probe runs fn once and converts its outcome into a State.
// A failed probe is logged as a warning and reported as Unavailable with its error.
func Probe(logger *slog.Logger, name string, fn func() error) (State, error) {
	if err := fn(); err != nil {
		logger.Warn("capability unavailable", "capability", name, "reason", err)
		return Unavailable, err
	}
	logger.Info("capability available", "capability", name)
	return Available, nil
}
