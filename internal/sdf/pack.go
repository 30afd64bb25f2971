package sdf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FloatsPerObject is the std140 stride of one object in the packed buffer:
//
//	center.xyz, pad, size.xyz, pad, color.xyz, type,
//	negated, shadow, reflectivity, transparency, diffuse, pad, pad, pad
const FloatsPerObject = 20

// Pack serializes the scene into Cap()*FloatsPerObject floats. Slots past Len() are zero.
func Pack(s *Scene) []float32 {
	out := make([]float32, s.capacity*FloatsPerObject)
	for i := 0; i < s.count; i++ {
		o := s.objects[i]
		f := out[i*FloatsPerObject : (i+1)*FloatsPerObject]
		putVec(f[0:3], o.Center)
		putVec(f[4:7], o.Size)
		putVec(f[8:11], o.Color)
		f[11] = float32(o.Kind)
		f[12] = flag(o.Negated)
		f[13] = flag(o.Shadow)
		f[14] = float32(o.Reflectivity)
		f[15] = float32(o.Transparency)
		f[16] = float32(o.DiffuseIntensity)
	}
	return out
}

// PackBytes is Pack encoded as little-endian float32, ready for a uniform buffer upload.
func PackBytes(s *Scene) []byte {
	floats := Pack(s)
	out := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// Unpack rebuilds a scene of the given capacity from the first count objects of data.
func Unpack(data []float32, count, capacity int) (*Scene, error) {
	s, err := NewScene(capacity)
	if err != nil {
		return nil, err
	}
	if count < 0 || count > capacity {
		return nil, fmt.Errorf("%w: count %d, capacity %d", ErrSceneFull, count, capacity)
	}
	if len(data) < count*FloatsPerObject {
		return nil, fmt.Errorf("packed buffer holds %d floats, need %d", len(data), count*FloatsPerObject)
	}
	for i := 0; i < count; i++ {
		f := data[i*FloatsPerObject : (i+1)*FloatsPerObject]
		_, _ = s.Add(WorldObject{
			Kind:             KindFromCode(float64(f[11])),
			Center:           getVec(f[0:3]),
			Size:             getVec(f[4:7]),
			Color:            getVec(f[8:11]),
			Negated:          f[12] != 0,
			Shadow:           f[13] != 0,
			Reflectivity:     float64(f[14]),
			Transparency:     float64(f[15]),
			DiffuseIntensity: float64(f[16]),
		})
	}
	return s, nil
}

func putVec(dst []float32, v mgl64.Vec3) {
	dst[0], dst[1], dst[2] = float32(v[0]), float32(v[1]), float32(v[2])
}

func getVec(src []float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(src[0]), float64(src[1]), float64(src[2])}
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
