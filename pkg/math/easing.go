package math

// Breakpoints of the intro easing curve. Raw progress in [0, easeInEnd] maps
// to [0, easedInEnd]; [easeOutStart, 1] maps to [easedOutStart, 1].
const (
	easeInEnd     = 0.2
	easedInEnd    = 0.15
	easeOutStart  = 0.8
	easedOutStart = 0.85
)

// EaseInCubic is t^3.
func EaseInCubic(t float32) float32 {
	return t * t * t
}

// EaseOutCubic is 1 - (1-t)^3.
func EaseOutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

// IntroEase maps raw progress to applied progress with a slow departure, a
// linear transit and a slow arrival. It is continuous, monotonically
// non-decreasing and fixes 0, 0.2->0.15, 0.8->0.85 and 1.
func IntroEase(raw float32) float32 {
	t := Clamp(raw, 0, 1)
	switch {
	case t <= easeInEnd:
		return easedInEnd * EaseInCubic(t/easeInEnd)
	case t < easeOutStart:
		return easedInEnd + (t-easeInEnd)/(easeOutStart-easeInEnd)*(easedOutStart-easedInEnd)
	default:
		return easedOutStart + (1-easedOutStart)*EaseOutCubic((t-easeOutStart)/(1-easeOutStart))
	}
}
