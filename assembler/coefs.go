package assembler

// GradientCoefs are the low/high weights of a two point gradient across a
// spacing h.
func GradientCoefs(h float64) []float64 { return []float64{-1 / h, 1 / h} }

// InterpolantCoefs average two neighbours.
func InterpolantCoefs() []float64 { return []float64{0.5, 0.5} }

// InterpolantCoefs4 average the four cells sharing an edge.
func InterpolantCoefs4() []float64 { return []float64{0.25, 0.25, 0.25, 0.25} }

// DivergenceCoefs weight the low and high faces of a cell of volume vol
// whose faces have area area.
func DivergenceCoefs(area, vol float64) []float64 {
	return []float64{-area / vol, area / vol}
}
