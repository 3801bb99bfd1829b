package engine

// WorldPoint is a position in playfield pixel coordinates.
type WorldPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Defense is a live handle onto a placed defense owned by the combat
// subsystem. ApplyDamage returns the health actually removed, which the
// combat side caps at the defense's remaining health.
type Defense interface {
	ID() string
	TypeID() string
	Position() (x, y float64)
	Health() float64
	WearEnabled() bool
	ApplyDamage(amount float64) float64
}

// DefenseDefinition carries the balance data calibration needs for one
// defense type.
type DefenseDefinition struct {
	TypeID        string
	WearEnabled   bool
	WearDecrement float64
}

// CombatSource exposes live defense state. EarningRate is a type-level
// lookup; the grid rebuild batches it once per type run.
type CombatSource interface {
	ActiveDefenses() []Defense
	EarningRate(typeID string) float64
	Definitions() []DefenseDefinition
}

// Enemy is a live handle onto a spawned enemy. Enemies take strike damage
// uncapped; no actual-damage report is needed.
type Enemy interface {
	Position() (x, y float64)
	Alive() bool
	ApplyDamage(amount float64)
}

// EnemySource exposes live enemies for collateral damage. A nil source means
// strikes touch no enemies.
type EnemySource interface {
	ActiveEnemies() []Enemy
}

// WaveSource exposes the wave scheduler's projections.
type WaveSource interface {
	DifficultyIncreaseFactor() float64
	WaveDurationSeconds(n int) float64
	WaveTotalBounty(n int) float64
}

// EconomySource exposes the global economic model and map geometry.
type EconomySource interface {
	Alpha() float64
	TotalPathLength() float64
	MinimumEnemySpeed() float64
	MapSizePixels() (w, h float64)
}

// VisualHandle is an opaque reference to a visual the render sink owns.
type VisualHandle interface{}

// RenderSink receives strike visuals. The engine never reads anything back;
// a nil sink degrades the telegraph with a logged warning.
type RenderSink interface {
	AddVisual(x, y float64, anim AnimationDescriptor) VisualHandle
	RemoveVisual(handle VisualHandle)
}

// Dependencies bundles the collaborator contracts the engine consumes.
// Combat, Waves, and Economy are required; Enemies and Render are optional
// and degrade gracefully when nil.
type Dependencies struct {
	Combat  CombatSource
	Enemies EnemySource
	Waves   WaveSource
	Economy EconomySource
	Render  RenderSink
}
