package render

// Lerp returns a*(1-t) + b*t per channel.
func (c Color) Lerp(b Color, t float32) Color {
	return Color{
		R: c.R + (b.R-c.R)*t,
		G: c.G + (b.G-c.G)*t,
		B: c.B + (b.B-c.B)*t,
	}
}

// Mix crossfades the active frame a into the armed frame b. Only the shortest
// of the three buffers is written.
func Mix(dst, a, b []Color, alpha float64) {
	n := len(dst)
	if len(a) < n {
		n = len(a)
	}
	if len(b) < n {
		n = len(b)
	}
	switch {
	case alpha <= 0:
		copy(dst[:n], a[:n])
	case alpha >= 1:
		copy(dst[:n], b[:n])
	default:
		t := float32(alpha)
		for i := range dst[:n] {
			dst[i] = a[i].Lerp(b[i], t)
		}
	}
}
