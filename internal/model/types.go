package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version" yaml:"schema_version,omitempty"`
	CodecVersion  int `json:"codec_version" yaml:"codec_version,omitempty"`
}

const (
	KindWeighted = "weighted"
	KindLogic    = "logic"
	KindRewired  = "rewired-eca"
)

// NetworkRecord is the serializable definition of any network kind. Only the
// fields of its Kind are populated.
type NetworkRecord struct {
	VersionedRecord `yaml:",inline"`
	ID              string         `json:"id" yaml:"id,omitempty"`
	Kind            string         `json:"kind" yaml:"kind"`
	Name            string         `json:"name,omitempty" yaml:"name,omitempty"`
	Names           []string       `json:"names,omitempty" yaml:"names,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	Weights    [][]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
	Thresholds []float64   `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Theta      string      `json:"theta,omitempty" yaml:"theta,omitempty"`

	Logic []LogicRule `json:"logic,omitempty" yaml:"logic,omitempty"`

	Code     int     `json:"code,omitempty" yaml:"code,omitempty"`
	Boundary []int   `json:"boundary,omitempty" yaml:"boundary,omitempty"`
	Size     int     `json:"size,omitempty" yaml:"size,omitempty"`
	Wiring   [][]int `json:"wiring,omitempty" yaml:"wiring,omitempty"`
}

type LogicRule struct {
	Inputs     []int    `json:"inputs" yaml:"inputs"`
	Conditions []string `json:"conditions" yaml:"conditions"`
}

// TrajectoryRecord stores a simulated sequence of states. States[0] is the
// initial state.
type TrajectoryRecord struct {
	VersionedRecord
	ID         string    `json:"id"`
	NetworkID  string    `json:"network_id"`
	States     [][]int   `json:"states"`
	CycleStart int       `json:"cycle_start"`
	CycleLen   int       `json:"cycle_len"`
	CreatedAt  time.Time `json:"created_at"`
}
