package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcaluminis-raymarch/internal/config"
	diag "github.com/coreman2200/arcaluminis-raymarch/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
	"github.com/coreman2200/arcaluminis-raymarch/internal/sdf"
)

type capture struct{ frames []render.Frame }

func (c *capture) Write(f render.Frame) error {
	f.Pix = append([]render.Color(nil), f.Pix...)
	c.frames = append(c.frames, f)
	return nil
}

func smallConfig() *config.Config {
	c := config.Default()
	c.Render.Width, c.Render.Height = 32, 24
	c.Scene.Preset = "sphere"
	return c
}

func lit(c render.Color) bool { return c.R+c.G+c.B > 0 }

func TestCoreRendersStartingScene(t *testing.T) {
	out := &capture{}
	c, err := InitCore(context.Background(), smallConfig(), out)
	require.NoError(t, err)

	assert.Equal(t, mgl64.Vec3{0, 0, -3.5}, c.Cam.Snapshot())
	c.Step(1.0 / 30)
	require.Len(t, out.frames, 1)
	f := out.frames[0]
	assert.True(t, lit(f.Pix[12*32+16]))
	assert.False(t, lit(f.Pix[0]))

	h := c.Health()
	assert.Equal(t, "sphere", h.Scene)
	assert.Equal(t, uint64(1), h.FrameID)
	assert.Equal(t, 32, h.Width)
}

func TestCoreSceneSwitchingAndDiagnostics(t *testing.T) {
	c, err := InitCore(context.Background(), smallConfig())
	require.NoError(t, err)
	var got []diag.Diagnostic
	c.OnDiag = func(d diag.Diagnostic) { got = append(got, d) }

	require.NoError(t, c.UseScene("room"))
	assert.Equal(t, mgl64.Vec3{3, -6, -3.5}, c.Camera().Snapshot())
	require.NotEmpty(t, got)
	assert.Equal(t, diag.CodeSceneSwitch, got[len(got)-1].Code)
	assert.Error(t, c.UseScene("nope"))

	require.NoError(t, c.LoadScene([]byte(`{"camera":[0,0,-9],"objects":[{"kind":"box","size":1,"color":[1,1,1]}]}`)))
	assert.Equal(t, "custom", c.Health().Scene)
	assert.Equal(t, mgl64.Vec3{0, 0, -9}, c.Cam.Snapshot())
	assert.Error(t, c.LoadScene([]byte(`objects: []`)))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("objects:\n  - {kind: box, transparency: 3}\n"), 0644))
	_, err = c.LoadSceneFile(path)
	assert.Error(t, err)
	assert.Equal(t, diag.CodeSceneLoad, got[len(got)-1].Code)
}

func TestCoreSceneFileAndCameraOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pillar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("objects:\n  - {kind: box, size: [1, 3, 1], color: normal}\n"), 0644))
	cfg := smallConfig()
	cfg.Scene.File = path
	cfg.Camera = &[3]float64{0, 0, -8}

	c, err := InitCore(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "pillar", c.Health().Scene)
	assert.Equal(t, mgl64.Vec3{0, 0, -8}, c.Cam.Snapshot())

	dump := filepath.Join(dir, "pillar.bin")
	require.NoError(t, c.DumpScene(dump))
	b, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Len(t, b, sdf.MaxObjects*sdf.FloatsPerObject*4)
}

func TestCoreShowDrivesCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
shots:
  - name: push
    renderer: raymarch
    preset: sphere
    duration: 2
    tracks:
      camera.z: {keys: [{t: 0, v: -6}, {t: 2, v: -4}]}
`), 0644))
	cfg := smallConfig()
	cfg.Show = path
	c, err := InitCore(context.Background(), cfg)
	require.NoError(t, err)

	c.Step(1)
	assert.InDelta(t, -5, c.Cam.Snapshot().Z(), 1e-9)
	assert.Equal(t, "push", c.Health().Show)

	cfg.Show = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = InitCore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestCoreRunTest(t *testing.T) {
	out := &capture{}
	c, err := InitCore(context.Background(), smallConfig(), out)
	require.NoError(t, err)
	require.NoError(t, c.RunTest("rgb_channels"))
	c.Step(0)
	assert.Equal(t, render.Color{R: 1}, out.frames[0].Pix[0])
	assert.Equal(t, "calib", c.Health().Renderer)
	assert.Error(t, c.RunTest("plane_z"))

	require.NoError(t, c.UseScene("sphere"))
	assert.Equal(t, "raymarch", c.Health().Renderer)
}

func TestCoreHealthDuringCrossfade(t *testing.T) {
	c, err := InitCore(context.Background(), smallConfig())
	require.NoError(t, err)
	require.NoError(t, c.UseScene("sphere"))

	require.NoError(t, c.Eng.ArmNext("raymarch", "room", c.Reg))
	c.Eng.SetCrossfade(0.5)
	c.Step(0)
	assert.Equal(t, "sphere", c.Health().Scene)

	c.Eng.SetCrossfade(1)
	assert.Equal(t, "room", c.Health().Scene)
}

func TestCoreRunStopsWithContext(t *testing.T) {
	out := &capture{}
	c, err := InitCore(context.Background(), smallConfig(), out)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Run(ctx, 60))
	assert.NotEmpty(t, out.frames)

	c.Stop()
	last := out.frames[len(out.frames)-1]
	for _, p := range last.Pix {
		require.False(t, lit(p))
	}
}
