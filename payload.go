package engine

// StrikePayload is the immutable bundle a strike needs to resolve. It is
// assembled lazily once calibration, impact-noise config, and animation
// assets are all known; dispatch is refused until assembly succeeds.
type StrikePayload struct {
	StrengthA          float64
	ImpactStdDevPixels float64
	MinDamageThreshold float64
	Shadow             AnimationDescriptor
	Explosion          AnimationDescriptor
}
