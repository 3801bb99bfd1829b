package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"spuders/engine/logging"
	loggingstrikes "spuders/engine/logging/strikes"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []logging.Event
}

func (p *capturePublisher) Publish(_ context.Context, event logging.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) ofType(eventType logging.EventType) []logging.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []logging.Event
	for _, event := range p.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func testPayload(strength float64) *StrikePayload {
	return &StrikePayload{
		StrengthA: strength,
		Shadow:    AnimationDescriptor{Name: "shadow", FrameCount: 4, FrameDuration: 0.1, TravelSpeed: 500},
		Explosion: AnimationDescriptor{Name: "explosion", FrameCount: 8, FrameDuration: 0.05},
	}
}

func runStrike(t *testing.T, s *strike) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if s.advance(0.1, uint64(i)) {
			return
		}
	}
	t.Fatalf("strike did not complete")
}

func TestStrikeDirectHitCapsAtRemainingHealth(t *testing.T) {
	defense := &fakeDefense{id: "d1", typeID: "gunner", x: 200, y: 200, health: 100, wear: true}
	ctx := strikeContext{defenses: []Defense{defense}, live: true}

	s, err := newStrike(testPayload(10000), WorldPoint{X: 200, Y: 200}, ctx, nil, 0, 1000, logging.NopPublisher{})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	runStrike(t, s)

	// Distance floors at minEffectiveDistance=1, so raw damage is 10000,
	// capped by the defense's remaining 100 health.
	if s.damageDealt != 100 {
		t.Fatalf("expected ΔR 100, got %g", s.damageDealt)
	}
	if defense.health != 0 {
		t.Fatalf("expected defense destroyed, health %g", defense.health)
	}
}

func TestStrikeDamageFalloff(t *testing.T) {
	s, err := newStrike(testPayload(10000), WorldPoint{X: 0, Y: 0}, strikeContext{defenses: []Defense{}}, nil, 0, 1000, logging.NopPublisher{})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}

	if s.damageAt(0, 0) != s.damageAt(minEffectiveDistance, 0) {
		t.Fatalf("damage at zero distance must equal damage at the floor")
	}

	previous := s.damageAt(minEffectiveDistance, 0)
	for _, distance := range []float64{2, 5, 10, 50, 200} {
		current := s.damageAt(distance, 0)
		if current >= previous {
			t.Fatalf("damage did not fall off at distance %g: %g >= %g", distance, current, previous)
		}
		previous = current
	}
}

func TestStrikeMinDamageThreshold(t *testing.T) {
	near := &fakeDefense{id: "near", typeID: "gunner", x: 10, y: 0, health: 1000, wear: true}
	far := &fakeDefense{id: "far", typeID: "gunner", x: 500, y: 0, health: 1000, wear: true}
	payload := testPayload(10000)
	payload.MinDamageThreshold = 1

	s, err := newStrike(payload, WorldPoint{X: 0, Y: 0}, strikeContext{defenses: []Defense{near, far}, live: true}, nil, 0, 1000, logging.NopPublisher{})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	runStrike(t, s)

	if near.health == 1000 {
		t.Fatalf("expected the near defense to take damage")
	}
	if far.health != 1000 {
		t.Fatalf("expected sub-threshold damage to be skipped, health %g", far.health)
	}
}

func TestStrikeConstructionValidation(t *testing.T) {
	ctx := strikeContext{defenses: []Defense{}}
	cases := []struct {
		name    string
		payload *StrikePayload
		target  WorldPoint
		ctx     strikeContext
	}{
		{name: "nil payload", payload: nil, target: WorldPoint{X: 1, Y: 1}, ctx: ctx},
		{name: "NaN target", payload: testPayload(100), target: WorldPoint{X: math.NaN(), Y: 1}, ctx: ctx},
		{name: "infinite target", payload: testPayload(100), target: WorldPoint{X: 1, Y: math.Inf(1)}, ctx: ctx},
		{name: "nil defense scope", payload: testPayload(100), target: WorldPoint{X: 1, Y: 1}, ctx: strikeContext{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := newStrike(tc.payload, tc.target, tc.ctx, nil, 0, 1000, logging.NopPublisher{})
			if !errors.Is(err, ErrDispatchRejected) {
				t.Fatalf("expected ErrDispatchRejected, got %v", err)
			}
			if s != nil {
				t.Fatalf("expected no strike instance on rejection")
			}
		})
	}
}

func TestStrikePhaseSequencing(t *testing.T) {
	render := &fakeRender{}
	defense := &fakeDefense{id: "d1", typeID: "gunner", x: 100, y: 100, health: 50, wear: true}
	ctx := strikeContext{defenses: []Defense{defense}, render: render, live: true}

	// Telegraph sweeps 1000px at 500px/s = 2s, then a 0.5s delay.
	s, err := newStrike(testPayload(10000), WorldPoint{X: 100, Y: 100}, ctx, nil, 0.5, 1000, logging.NopPublisher{})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}

	if done := s.advance(0.25, 1); done || s.phase != strikeTelegraphing {
		t.Fatalf("expected telegraph to start, phase %d", s.phase)
	}
	if len(render.added) != 1 || render.added[0].anim.Name != "shadow" {
		t.Fatalf("expected shadow visual at telegraph start")
	}

	for i := 0; i < 8; i++ {
		if s.advance(0.25, 2) {
			t.Fatalf("strike completed during telegraph")
		}
	}
	if s.phase != strikeDelayed {
		t.Fatalf("expected delay phase after telegraph, phase %d", s.phase)
	}
	if render.removed != 1 {
		t.Fatalf("expected shadow visual removed after telegraph")
	}
	if defense.health != 50 {
		t.Fatalf("telegraph must not deal damage")
	}

	if s.advance(0.25, 3) {
		t.Fatalf("strike completed before the delay elapsed")
	}
	if !s.advance(0.25, 4) {
		t.Fatalf("expected completion once the delay elapsed")
	}
	if s.phase != strikeComplete {
		t.Fatalf("expected terminal phase, got %d", s.phase)
	}
	if defense.health != 0 {
		t.Fatalf("expected resolve to destroy the defense, health %g", defense.health)
	}
	if len(render.added) != 2 || render.added[1].anim.Name != "explosion" {
		t.Fatalf("expected explosion visual at resolve")
	}
}

func TestStrikeTelegraphDegradesWithoutRenderSink(t *testing.T) {
	pub := &capturePublisher{}
	defense := &fakeDefense{id: "d1", typeID: "gunner", x: 0, y: 0, health: 50, wear: true}
	ctx := strikeContext{defenses: []Defense{defense}, live: true}

	s, err := newStrike(testPayload(10000), WorldPoint{X: 0, Y: 0}, ctx, nil, 0.1, 1000, pub)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	runStrike(t, s)

	if len(pub.ofType(loggingstrikes.EventTelegraphDegraded)) != 1 {
		t.Fatalf("expected one telegraph degradation event")
	}
	if defense.health != 0 {
		t.Fatalf("degraded telegraph must not affect damage, health %g", defense.health)
	}
}

func TestStrikeImpactNoiseUsesSampler(t *testing.T) {
	sampler := newGaussSampler(newDeterministicRNG("strike-test", "noise"))
	payload := testPayload(10000)
	payload.ImpactStdDevPixels = 40

	s, err := newStrike(payload, WorldPoint{X: 500, Y: 500}, strikeContext{defenses: []Defense{}}, sampler, 0, 1000, logging.NopPublisher{})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	if s.impact == s.target {
		t.Fatalf("expected impact noise to displace the impact point")
	}

	exact, err := newStrike(testPayload(10000), WorldPoint{X: 500, Y: 500}, strikeContext{defenses: []Defense{}}, sampler, 0, 1000, logging.NopPublisher{})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	if exact.impact != exact.target {
		t.Fatalf("expected zero std dev to impact exactly on target")
	}
}

func TestStrikeCollateralDamageLiveOnly(t *testing.T) {
	enemy := &fakeEnemy{x: 5, y: 0, alive: true}
	dead := &fakeEnemy{x: 5, y: 0, alive: false}
	enemies := &fakeEnemies{enemies: []Enemy{enemy, dead}}
	defense := &fakeDefense{id: "d1", typeID: "gunner", x: 0, y: 0, health: 100, wear: true}

	live, err := newStrike(testPayload(10000), WorldPoint{X: 0, Y: 0}, strikeContext{defenses: []Defense{defense}, enemies: enemies, live: true}, nil, 0, 1000, logging.NopPublisher{})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	runStrike(t, live)

	if enemy.taken <= 0 {
		t.Fatalf("expected live strike to damage enemies")
	}
	if dead.taken != 0 {
		t.Fatalf("expected dead enemies to be skipped")
	}

	enemy.taken = 0
	defense.health = 100
	simulated, err := newStrike(testPayload(10000), WorldPoint{X: 0, Y: 0}, strikeContext{defenses: []Defense{defense}, enemies: enemies, live: false}, nil, 0, 1000, logging.NopPublisher{})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	runStrike(t, simulated)

	if enemy.taken != 0 {
		t.Fatalf("simulation strike must not touch enemies")
	}
}
