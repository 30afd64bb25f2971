package scene

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("unknown scene preset")

var (
	sand     = Color{RGB: Vec{0.7764705882352941, 0.6431372549019608, 0.5549019607843137}}
	blush    = Color{RGB: Vec{1.0, 0.8352941176470589, 0.8039215686274509}}
	shell    = Color{RGB: Vec{1.0, 0.8852941176470589, 0.8839215686274509}}
	byNormal = Color{Normal: true}
)

var presets = map[string]func() *Description{
	"room":    room,
	"classic": classic,
	"grid":    grid,
	"sphere":  sphere,
}

// Preset returns a fresh copy of a built-in scene.
func Preset(name string) (*Description, error) {
	f, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return f(), nil
}

// Presets lists the built-in scene names.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func camera(x, y, z float64) *Vec { return &Vec{x, y, z} }

// room is a walled box with a rippling pool, a wobbling centerpiece and a mirror-ish floor.
func room() *Description {
	return &Description{
		Name:     "room",
		Capacity: 32,
		Camera:   camera(3, -6, -3.5),
		Objects:  roomObjects(19),
	}
}

// classic is the earlier, shorter-walled room.
func classic() *Description {
	return &Description{
		Name:     "classic",
		Capacity: 16,
		Camera:   camera(0, 0, -3.5),
		Objects:  roomObjects(9),
	}
}

func roomObjects(wallHeight float64) []Object {
	const depth = 10.0
	box := func(c, s Vec, col Color, refl, diffuse float64) Object {
		return Object{Kind: "box", Center: c, Size: s, Color: col, Reflectivity: refl, Diffuse: diffuse}
	}
	return []Object{
		{Kind: "wiggle_plane", Center: Vec{-10, -10, -10}, Size: Vec{0, 1, 0}, Color: Color{RGB: Vec{0.5, 0.5, 1}},
			Reflectivity: 0.4, Transparency: 0.4, Diffuse: 0.6},
		box(Vec{depth, -20, depth}, Vec{5, 11, depth}, sand, 0.2, 0.6),
		box(Vec{-depth, -20, depth}, Vec{5, 11, depth}, sand, 0.2, 0.6),
		box(Vec{0, -20, 25}, Vec{15, 11, 5}, sand, 0.2, 0.6),
		box(Vec{0, -20, -5}, Vec{15, 11, 5}, sand, 0.2, 0.6),
		box(Vec{0, 0, 25}, Vec{15, wallHeight, 1}, blush, 0.2, 0.6),
		box(Vec{0, 0, -5}, Vec{15, wallHeight, 1}, blush, 0.2, 0.6),
		box(Vec{depth, 0, depth}, Vec{1, wallHeight, 14}, blush, 0.2, 0.6),
		box(Vec{-depth, 0, depth}, Vec{1, wallHeight, 14}, shell, 0.2, 0.6),
		{Kind: "plane", Center: Vec{0, 0, 0}, Size: Vec{0, -1, 0}, Color: Color{RGB: Vec{1, 0.9, 0.9}}, Reflectivity: 0.2},
		{Kind: "wiggle_sphere", Center: Vec{0, -5, 12}, Size: Vec{2, 2, 2}, Color: byNormal, Reflectivity: 0.4, Diffuse: 0.4},
	}
}

// grid is a 5x5 sheet of normal-shaded wobbling spheres.
func grid() *Description {
	d := &Description{Name: "grid", Capacity: 32, Camera: camera(3, -6, -3.5)}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			d.Objects = append(d.Objects, Object{
				Kind:   "wiggle_sphere",
				Center: Vec{float64(i*3 - 10), float64(j*3 - 10), 0},
				Size:   Vec{1, 1, 1},
				Color:  byNormal,
			})
		}
	}
	return d
}

// sphere is a single lit unit sphere in front of the camera.
func sphere() *Description {
	return &Description{
		Name:     "sphere",
		Capacity: 16,
		Camera:   camera(0, 0, -3.5),
		Objects: []Object{
			{Kind: "sphere", Size: Vec{1, 1, 1}, Color: Color{RGB: Vec{1, 0.8, 0.6}}, Diffuse: 0.5},
		},
	}
}
