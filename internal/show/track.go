package show

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func ease(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		return x * x * (3 - 2*x)
	case "cubic":
		// 6x^5 - 15x^4 + 10x^3
		return x * x * x * (x*(x*6-15) + 10)
	default:
		return x
	}
}

// Eval returns the track value at t. Empty tracks are 0; values hold before the first
// and after the last key.
func (tr Track) Eval(t float64) float64 {
	n := len(tr.Keys)
	if n == 0 {
		return 0
	}
	if t <= tr.Keys[0].T {
		return tr.Keys[0].V
	}
	if t >= tr.Keys[n-1].T {
		return tr.Keys[n-1].V
	}
	for i := 0; i < n-1; i++ {
		a, b := tr.Keys[i], tr.Keys[i+1]
		if t > b.T {
			continue
		}
		den := b.T - a.T
		if den <= 0 {
			return b.V
		}
		u := ease(a.Ease, clamp01((t-a.T)/den))
		return a.V + (b.V-a.V)*u
	}
	return tr.Keys[n-1].V
}

func (tr Track) On(t float64) bool { return tr.Eval(t) >= 0.5 }
