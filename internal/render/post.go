package render

import "math"

// ClampPost clamps every channel to [0,1] and otherwise leaves the raymarcher's
// output untouched.
func ClampPost(buf []Color, _ *Uniforms) {
	for i := range buf {
		buf[i].R = clamp01(buf[i].R)
		buf[i].G = clamp01(buf[i].G)
		buf[i].B = clamp01(buf[i].B)
	}
}

// SanitizeNonFinite replaces pixels holding NaN or Inf with black and returns how many
// were replaced.
func SanitizeNonFinite(buf []Color) int {
	n := 0
	for i := range buf {
		if !finite(buf[i].R) || !finite(buf[i].G) || !finite(buf[i].B) {
			buf[i] = Color{}
			n++
		}
	}
	return n
}

func finite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func exposureScale(u *Uniforms) float32 {
	if u == nil {
		return 1
	}
	return float32(math.Pow(2.0, u.Params["ExposureEV"]))
}

// FilmicToneMap applies exposure in EV, the ACES curve and output gamma.
// Reads from uniforms.Params:
//   - "ExposureEV" (default 0)
//   - "OutputGamma" (default 2.2)
func FilmicToneMap(buf []Color, u *Uniforms) {
	gamma := 2.2
	if u != nil {
		if g, ok := u.Params["OutputGamma"]; ok && g > 0 {
			gamma = g
		}
	}
	exposure := exposureScale(u)
	ig := 1.0 / gamma

	for i := range buf {
		r := acesApprox(buf[i].R * exposure)
		g := acesApprox(buf[i].G * exposure)
		b := acesApprox(buf[i].B * exposure)

		if gamma != 1.0 {
			r = powf(r, ig)
			g = powf(g, ig)
			b = powf(b, ig)
		}

		buf[i].R = clamp01(r)
		buf[i].G = clamp01(g)
		buf[i].B = clamp01(b)
	}
}

// LinearExposure scales by 2^ExposureEV with no curve.
func LinearExposure(buf []Color, u *Uniforms) {
	s := exposureScale(u)
	if s == 1 {
		return
	}
	for i := range buf {
		buf[i].R *= s
		buf[i].G *= s
		buf[i].B *= s
	}
}

// LimitAndClamp runs DefaultLimiter then clamps to [0,1] for the LED path.
func LimitAndClamp(buf []Color, u *Uniforms) {
	DefaultLimiter(buf, u)
	ClampPost(buf, u)
}

// DefaultLimiter protects a physical strip in two stages:
// a per-LED "white cap" scales (R,G,B) so R+G+B <= WhiteCap (default 3.0 = no cap),
// then the estimated current of the whole frame is kept under Budget_mA.
//
// Parameters (read from uniforms.Params):
//   - "WhiteCap" (sum of channels cap in linear space, default 3.0)
//   - "LEDChan_mA" (mA per color channel at full scale; WS2812 ≈ 20, default 20)
//   - "Budget_mA" (global budget in mA; if 0 or missing, only the white cap applies)
//   - "LimiterKnee" (fraction of budget where soft limiting begins; default 0.9)
//
// A "PreviewMode" param above 0.5 bypasses the limiter.
func DefaultLimiter(buf []Color, u *Uniforms) {
	if u == nil || u.Params["PreviewMode"] > 0.5 {
		return
	}

	whiteCap := 3.0
	chanmA := 20.0
	budget := 0.0
	knee := 0.9
	if v, ok := u.Params["WhiteCap"]; ok && v > 0 {
		whiteCap = v
	}
	if v, ok := u.Params["LEDChan_mA"]; ok && v > 0 {
		chanmA = v
	}
	if v, ok := u.Params["Budget_mA"]; ok && v > 0 {
		budget = v
	}
	if v, ok := u.Params["LimiterKnee"]; ok && v > 0 && v < 1 {
		knee = v
	}

	wc := float32(whiteCap)
	for i := range buf {
		s := buf[i].R + buf[i].G + buf[i].B
		if s > wc && s > 0 {
			scale := wc / s
			buf[i].R *= scale
			buf[i].G *= scale
			buf[i].B *= scale
		}
	}

	if budget <= 0 {
		return
	}
	var total float64
	cm := float32(chanmA)
	for i := range buf {
		total += float64((buf[i].R + buf[i].G + buf[i].B) * cm)
	}
	if total <= 0 {
		return
	}

	ratio := total / budget
	if ratio <= 1.0 {
		if ratio <= knee {
			return
		}
		// map ratio in [knee,1] to scale in [1, budget/total]
		minS := budget / total
		t := (ratio - knee) / (1.0 - knee)
		applyGlobalScale(buf, float32(1.0-t*(1.0-minS)))
		return
	}
	applyGlobalScale(buf, float32(budget/total))
}

func applyGlobalScale(buf []Color, s float32) {
	if s >= 1.0 {
		return
	}
	for i := range buf {
		buf[i].R *= s
		buf[i].G *= s
		buf[i].B *= s
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func powf(x float32, p float64) float32 {
	return float32(math.Pow(float64(x), p))
}

// Approximate ACES filmic curve (Narkowicz 2015).
func acesApprox(x float32) float32 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	return clamp01((x * (a*x + b)) / (x*(c*x+d) + e))
}
