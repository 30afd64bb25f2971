// Package scene loads scene descriptions (YAML or JSON) into sdf scenes.
package scene

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/arcaluminis-raymarch/internal/sdf"
)

// DefaultCapacity is used when a document does not set one.
const DefaultCapacity = sdf.MaxObjects

// Vec is a 3-vector. A single scalar fills all three components.
type Vec [3]float64

func (v *Vec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		*v = Vec{f, f, f}
		return nil
	}
	var s []float64
	if err := n.Decode(&s); err != nil {
		return err
	}
	if len(s) != 3 {
		return fmt.Errorf("line %d: want 3 components, got %d", n.Line, len(s))
	}
	copy(v[:], s)
	return nil
}

func (v Vec) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range v {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: fmtFloat(f)})
	}
	return n, nil
}

func (v Vec) vec3() mgl64.Vec3 { return mgl64.Vec3(v) }

// Color is an RGB triple or the word "normal" for normal-shaded materials.
type Color struct {
	Normal bool
	RGB    Vec
}

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && strings.EqualFold(n.Value, "normal") {
		*c = Color{Normal: true}
		return nil
	}
	if err := n.Decode(&c.RGB); err != nil {
		return err
	}
	c.Normal = c.RGB[0] == sdf.NormalColor
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	if c.Normal {
		return "normal", nil
	}
	return c.RGB, nil
}

// Object is the document form of sdf.WorldObject.
type Object struct {
	Kind         string  `yaml:"kind" json:"kind"`
	Center       Vec     `yaml:"center" json:"center"`
	Size         Vec     `yaml:"size" json:"size"`
	Color        Color   `yaml:"color" json:"color"`
	Negated      bool    `yaml:"negated,omitempty" json:"negated,omitempty"`
	Shadow       bool    `yaml:"shadow,omitempty" json:"shadow,omitempty"`
	Reflectivity float64 `yaml:"reflectivity,omitempty" json:"reflectivity,omitempty"`
	Transparency float64 `yaml:"transparency,omitempty" json:"transparency,omitempty"`
	Diffuse      float64 `yaml:"diffuse,omitempty" json:"diffuse,omitempty"`
}

// Description is a complete scene document.
type Description struct {
	Name     string   `yaml:"name,omitempty"`
	Capacity int      `yaml:"capacity,omitempty"`
	Camera   *Vec     `yaml:"camera,omitempty"`
	Objects  []Object `yaml:"objects"`
}

var ErrEmpty = errors.New("scene has no objects")

// Parse decodes a YAML (or JSON) scene document.
func Parse(b []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if len(d.Objects) == 0 {
		return nil, ErrEmpty
	}
	return &d, nil
}

func Load(path string) (*Description, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = path
	}
	return d, nil
}

func Save(path string, d *Description) error {
	b, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Build converts the document into an sdf scene. Objects of unknown kind are kept
// (they render as empty space) and logged.
func (d *Description) Build() (*sdf.Scene, error) {
	capacity := d.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	s, err := sdf.NewScene(capacity)
	if err != nil {
		return nil, err
	}
	for i, o := range d.Objects {
		k, err := sdf.ParseKind(o.Kind)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		if !k.Known() {
			log.Warn().Str("scene", d.Name).Int("index", i).Str("kind", o.Kind).
				Msg("unknown object kind; it will not render")
		}
		wo := sdf.WorldObject{
			Kind:             k,
			Center:           o.Center.vec3(),
			Size:             o.Size.vec3(),
			Color:            o.Color.RGB.vec3(),
			Negated:          o.Negated,
			Shadow:           o.Shadow,
			Reflectivity:     o.Reflectivity,
			Transparency:     o.Transparency,
			DiffuseIntensity: o.Diffuse,
		}
		if o.Color.Normal {
			wo.Color = mgl64.Vec3{sdf.NormalColor, sdf.NormalColor, sdf.NormalColor}
		}
		if err := wo.Validate(); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		if _, err := s.Add(wo); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}
	return s, nil
}

// CameraOr returns the document camera, or def when none is set.
func (d *Description) CameraOr(def mgl64.Vec3) mgl64.Vec3 {
	if d.Camera == nil {
		return def
	}
	return d.Camera.vec3()
}

// FromScene converts an sdf scene back into document form.
func FromScene(name string, s *sdf.Scene) *Description {
	d := &Description{Name: name, Capacity: s.Cap()}
	for _, o := range s.Objects() {
		d.Objects = append(d.Objects, Object{
			Kind:         kindName(o.Kind),
			Center:       Vec(o.Center),
			Size:         Vec(o.Size),
			Color:        Color{Normal: o.NormalShaded(), RGB: Vec(o.Color)},
			Negated:      o.Negated,
			Shadow:       o.Shadow,
			Reflectivity: o.Reflectivity,
			Transparency: o.Transparency,
			Diffuse:      o.DiffuseIntensity,
		})
	}
	return d
}

func kindName(k sdf.Kind) string {
	if k.Known() {
		return k.String()
	}
	return strconv.Itoa(int(k))
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
