package timeline

// Transform places a source frame inside the output frame: a uniform scale
// followed by a centering translation.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// CenterFit computes the transform that scales a srcW×srcH frame uniformly to
// fit inside dstW×dstH and centers it. The scale factor is
// min(dstW/srcW, dstH/srcH); the translation is half the leftover space on
// each axis.
func CenterFit(srcW, srcH, dstW, dstH int) Transform {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Transform{Scale: 1}
	}
	scaleX := float64(dstW) / float64(srcW)
	scaleY := float64(dstH) / float64(srcH)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	scaledW := float64(srcW) * scale
	scaledH := float64(srcH) * scale
	return Transform{
		Scale:      scale,
		TranslateX: (float64(dstW) - scaledW) / 2,
		TranslateY: (float64(dstH) - scaledH) / 2,
	}
}

// ScaledSize returns the post-scale dimensions of a srcW×srcH frame.
func (t Transform) ScaledSize(srcW, srcH int) (int, int) {
	return int(float64(srcW)*t.Scale + 0.5), int(float64(srcH)*t.Scale + 0.5)
}
