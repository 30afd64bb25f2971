// Package show plays timelines of shots: renderer/scene selections with optional
// crossfades and keyframed parameter and camera tracks.
package show

// Key is a value at time T (seconds into the shot). Ease shapes the segment that
// starts at this key: "linear", "smooth" or "cubic".
type Key struct {
	T    float64 `yaml:"t" json:"t"`
	V    float64 `yaml:"v" json:"v"`
	Ease string  `yaml:"ease,omitempty" json:"ease,omitempty"`
}

// Track is a list of keys sorted by T.
type Track struct {
	Keys []Key `yaml:"keys" json:"keys"`
}

// Track names that drive the camera instead of a uniform param.
const (
	CameraX = "camera.x"
	CameraY = "camera.y"
	CameraZ = "camera.z"
)

// Shot selects a renderer and preset for Duration seconds. A positive Blend crossfades
// into the following shot over its last Blend seconds.
type Shot struct {
	Name     string           `yaml:"name" json:"name"`
	Renderer string           `yaml:"renderer" json:"renderer"`
	Preset   string           `yaml:"preset,omitempty" json:"preset,omitempty"`
	Duration float64          `yaml:"duration" json:"duration"`
	Blend    float64          `yaml:"blend,omitempty" json:"blend,omitempty"`
	Tracks   map[string]Track `yaml:"tracks,omitempty" json:"tracks,omitempty"`
	Flags    map[string]Track `yaml:"flags,omitempty" json:"flags,omitempty"` // thresholded at 0.5
}

// Show is a full timeline.
type Show struct {
	Version string `yaml:"version" json:"version"`
	Loop    bool   `yaml:"loop,omitempty" json:"loop,omitempty"`
	Shots   []Shot `yaml:"shots" json:"shots"`
}

type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
)

// Hooks are callbacks into the engine and camera. Nil hooks are skipped.
type Hooks struct {
	SetRenderer  func(name, preset string)
	ArmNext      func(name, preset string)
	SetCrossfade func(alpha float64)
	SetParam     func(name string, v float64)
	SetBool      func(name string, b bool)
	// SetCameraAxis sets one camera component (0=x, 1=y, 2=z).
	SetCameraAxis func(axis int, v float64)
}
