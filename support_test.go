package engine

// Shared collaborator fakes for the engine tests.

type fakeDefense struct {
	id     string
	typeID string
	x, y   float64
	health float64
	wear   bool
}

func (d *fakeDefense) ID() string                   { return d.id }
func (d *fakeDefense) TypeID() string               { return d.typeID }
func (d *fakeDefense) Position() (float64, float64) { return d.x, d.y }
func (d *fakeDefense) Health() float64              { return d.health }
func (d *fakeDefense) WearEnabled() bool            { return d.wear }

func (d *fakeDefense) ApplyDamage(amount float64) float64 {
	if amount <= 0 || d.health <= 0 {
		return 0
	}
	actual := amount
	if actual > d.health {
		actual = d.health
	}
	d.health -= actual
	return actual
}

type fakeCombat struct {
	defenses    []Defense
	rates       map[string]float64
	definitions []DefenseDefinition
	rateCalls   int
}

func (c *fakeCombat) ActiveDefenses() []Defense { return c.defenses }

func (c *fakeCombat) EarningRate(typeID string) float64 {
	c.rateCalls++
	return c.rates[typeID]
}

func (c *fakeCombat) Definitions() []DefenseDefinition { return c.definitions }

type fakeEnemy struct {
	x, y  float64
	alive bool
	taken float64
}

func (e *fakeEnemy) Position() (float64, float64) { return e.x, e.y }
func (e *fakeEnemy) Alive() bool                  { return e.alive }
func (e *fakeEnemy) ApplyDamage(amount float64)   { e.taken += amount }

type fakeEnemies struct {
	enemies []Enemy
}

func (s *fakeEnemies) ActiveEnemies() []Enemy { return s.enemies }

type fakeWaves struct {
	factor    float64
	durations map[int]float64
	bounties  map[int]float64
}

func (w *fakeWaves) DifficultyIncreaseFactor() float64 { return w.factor }

func (w *fakeWaves) WaveDurationSeconds(n int) float64 {
	if d, ok := w.durations[n]; ok {
		return d
	}
	return 0
}

func (w *fakeWaves) WaveTotalBounty(n int) float64 {
	if b, ok := w.bounties[n]; ok {
		return b
	}
	return 0
}

type fakeEconomy struct {
	alpha      float64
	pathLength float64
	minSpeed   float64
	mapWidth   float64
	mapHeight  float64
}

func (e *fakeEconomy) Alpha() float64                    { return e.alpha }
func (e *fakeEconomy) TotalPathLength() float64          { return e.pathLength }
func (e *fakeEconomy) MinimumEnemySpeed() float64        { return e.minSpeed }
func (e *fakeEconomy) MapSizePixels() (float64, float64) { return e.mapWidth, e.mapHeight }

type renderedVisual struct {
	x, y float64
	anim AnimationDescriptor
}

type fakeRender struct {
	added   []renderedVisual
	removed int
}

func (r *fakeRender) AddVisual(x, y float64, anim AnimationDescriptor) VisualHandle {
	r.added = append(r.added, renderedVisual{x: x, y: y, anim: anim})
	return len(r.added) - 1
}

func (r *fakeRender) RemoveVisual(VisualHandle) {
	r.removed++
}

func testConfig() Config {
	return Config{
		TargetMaxWipeoutRadiusPercent: 0.1,
		ZBufferResolution:             Resolution{Width: 20, Height: 20},
		StampMapResolution:            Resolution{Width: 41, Height: 41},
		ImpactStdDevPercentWidth:      0,
		StrikeTriggerBufferScalar:     0.1,
		EmpiricalAverageBombDeltaR:    50,
		TargetDamageUpdatePoints:      10,
		StrikeDelaySeconds:            0.5,
		Shadow: AnimationDescriptor{
			Name:          "bomber-shadow",
			FrameCount:    4,
			FrameDuration: 0.1,
			TravelSpeed:   500,
		},
		Explosion: AnimationDescriptor{
			Name:          "explosion",
			FrameCount:    8,
			FrameDuration: 0.05,
		},
		Seed: "test",
	}
}

func testDependencies(combat *fakeCombat) Dependencies {
	return Dependencies{
		Combat: combat,
		Waves: &fakeWaves{
			factor:    1.2,
			durations: map[int]float64{1: 30, 2: 30, 3: 30},
			bounties:  map[int]float64{1: 200, 2: 240, 3: 280},
		},
		Economy: &fakeEconomy{
			alpha:      1,
			pathLength: 800,
			minSpeed:   40,
			mapWidth:   1000,
			mapHeight:  1000,
		},
	}
}
