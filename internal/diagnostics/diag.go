// Package diagnostics describes operator-facing problems in a stable JSON shape.
package diagnostics

import (
	"fmt"

	"github.com/rs/zerolog"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

const (
	CodeSceneLoad   = "SCENE.LOAD"
	CodeSceneSwitch = "SCENE.SWITCH"
	CodeCommand     = "CONTROL.UNKNOWN"
	CodeNonFinite   = "RENDER.NONFINITE"
	CodeDriver      = "OUTPUT.WRITE"
	CodeShow        = "SHOW.LOAD"
)

func SceneLoadFailed(source string, err error) Diagnostic {
	return Diagnostic{
		Severity: Err,
		Code:     CodeSceneLoad,
		Summary:  "Scene could not be loaded",
		Detail:   err.Error(),
		LikelyCauses: []string{
			"malformed YAML/JSON",
			"more objects than the scene capacity",
			"material weights outside [0,1]",
		},
		SuggestedFixes: []string{"check the document against a built-in preset saved with snapshot -dump-scene"},
		Evidence:       map[string]any{"source": source},
	}
}

func SceneSwitched(name string, objects int) Diagnostic {
	return Diagnostic{
		Severity: Info,
		Code:     CodeSceneSwitch,
		Summary:  "Scene active",
		Detail:   name,
		Evidence: map[string]any{"objects": objects},
	}
}

func UnknownCommand(what string) Diagnostic {
	return Diagnostic{
		Severity:       Warn,
		Code:           CodeCommand,
		Summary:        "Unknown control message",
		Detail:         what,
		SuggestedFixes: []string{"use ArrowUp/ArrowDown/ArrowLeft/ArrowRight/Shift/Control or move/camera/scene/param"},
	}
}

// NonFinitePixels reports pixels that were blanked because the march produced NaN or Inf.
func NonFinitePixels(frame uint64, count int) Diagnostic {
	return Diagnostic{
		Severity:     Warn,
		Code:         CodeNonFinite,
		Summary:      fmt.Sprintf("%d non-finite pixels blanked", count),
		LikelyCauses: []string{"a zero-length plane normal", "a camera placed exactly on a surface"},
		Evidence:     map[string]any{"frame": frame, "pixels": count},
	}
}

func DriverFailed(err error) Diagnostic {
	return Diagnostic{
		Severity:     Err,
		Code:         CodeDriver,
		Summary:      "Frame output failed",
		Detail:       err.Error(),
		LikelyCauses: []string{"SPI device unplugged or busy"},
	}
}

func ShowFailed(path string, err error) Diagnostic {
	return Diagnostic{
		Severity: Err,
		Code:     CodeShow,
		Summary:  "Show could not be loaded",
		Detail:   err.Error(),
		Evidence: map[string]any{"path": path},
	}
}

// Log writes d to l at the level matching its severity.
func Log(l zerolog.Logger, d Diagnostic) {
	var ev *zerolog.Event
	switch d.Severity {
	case Err:
		ev = l.Error()
	case Warn:
		ev = l.Warn()
	default:
		ev = l.Info()
	}
	ev.Str("code", d.Code).Str("detail", d.Detail).Fields(d.Evidence).Msg(d.Summary)
}
