package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"spuders/engine/logging"
	loggingstrikes "spuders/engine/logging/strikes"
)

// minEffectiveDistance floors the impact distance so the inverse-square
// falloff cannot blow up at zero range. Damage at distance zero therefore
// equals damage at this floor.
const minEffectiveDistance = 1.0

type strikePhase int

const (
	strikeIdle strikePhase = iota
	strikeTelegraphing
	strikeDelayed
	strikeResolving
	strikeComplete
)

// strikeContext names the collections one strike is allowed to damage. A
// live strike damages all active defenses and enemies; a simulation strike
// damages only the caller-supplied subset and never touches enemies.
type strikeContext struct {
	defenses []Defense
	enemies  EnemySource
	render   RenderSink
	live     bool
}

// strike is one dispatched strike instance. It is ephemeral: created on
// dispatch, advanced by the engine tick, terminal once complete. There is no
// retry and no cancellation; a validation failure at construction is the
// only way a strike never starts.
type strike struct {
	id      string
	payload StrikePayload
	target  WorldPoint
	impact  WorldPoint
	ctx     strikeContext
	pub     logging.Publisher

	phase        strikePhase
	remaining    float64
	delaySeconds float64
	mapWidth     float64
	shadowVisual VisualHandle
	damageDealt  float64
	defensesHit  int
	enemiesHit   int
}

// newStrike validates inputs and samples the impact point. Malformed input
// fails synchronously with no side effects.
func newStrike(payload *StrikePayload, target WorldPoint, ctx strikeContext, sampler *gaussSampler, delaySeconds, mapWidth float64, pub logging.Publisher) (*strike, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload not assembled", ErrDispatchRejected)
	}
	if math.IsNaN(target.X) || math.IsNaN(target.Y) || math.IsInf(target.X, 0) || math.IsInf(target.Y, 0) {
		return nil, fmt.Errorf("%w: target coordinates not finite", ErrDispatchRejected)
	}
	if ctx.defenses == nil {
		return nil, fmt.Errorf("%w: no defense collection in scope", ErrDispatchRejected)
	}
	if delaySeconds < 0 {
		delaySeconds = 0
	}

	s := &strike{
		id:           uuid.NewString(),
		payload:      *payload,
		target:       target,
		impact:       target,
		ctx:          ctx,
		pub:          pub,
		phase:        strikeIdle,
		delaySeconds: delaySeconds,
		mapWidth:     mapWidth,
	}
	if sampler != nil && payload.ImpactStdDevPixels > 0 {
		s.impact = sampler.samplePoint(target, payload.ImpactStdDevPixels)
	}
	return s, nil
}

// advance drives the strike state machine by dt seconds and returns true
// once the strike is complete. All waiting is modeled as remaining-time
// counters so the rest of the game keeps ticking.
func (s *strike) advance(dt float64, tick uint64) bool {
	if s == nil {
		return true
	}
	switch s.phase {
	case strikeIdle:
		s.beginTelegraph(tick)
		return false
	case strikeTelegraphing:
		s.remaining -= dt
		if s.remaining <= 0 {
			s.endTelegraph()
			s.phase = strikeDelayed
			s.remaining = s.delaySeconds
		}
		return false
	case strikeDelayed:
		s.remaining -= dt
		if s.remaining <= 0 {
			s.phase = strikeResolving
			s.resolve()
			s.phase = strikeComplete
			return true
		}
		return false
	case strikeResolving:
		// Resolution runs synchronously inside the delay transition;
		// observing this phase from outside means completion already fired.
		return false
	default:
		return true
	}
}

// beginTelegraph shows the sweep visual at the intended target's row. The
// telegraph is purely cosmetic: missing assets or a nil render sink skip it
// with a logged degradation instead of stalling the sequence.
func (s *strike) beginTelegraph(tick uint64) {
	duration, missing := s.telegraphDuration()
	if missing != "" {
		loggingstrikes.TelegraphDegraded(context.Background(), s.pub, tick, s.id, loggingstrikes.DegradedPayload{Missing: missing})
		s.phase = strikeDelayed
		s.remaining = s.delaySeconds
		return
	}
	s.shadowVisual = s.ctx.render.AddVisual(s.target.X, s.target.Y, s.payload.Shadow)
	s.phase = strikeTelegraphing
	s.remaining = duration
}

func (s *strike) telegraphDuration() (float64, string) {
	if s.ctx.render == nil {
		return 0, "render sink"
	}
	if !s.payload.Shadow.Available() {
		return 0, "shadow animation"
	}
	if s.payload.Shadow.TravelSpeed <= epsilon {
		return 0, "shadow travel speed"
	}
	return s.mapWidth / s.payload.Shadow.TravelSpeed, ""
}

func (s *strike) endTelegraph() {
	if s.ctx.render != nil && s.shadowVisual != nil {
		s.ctx.render.RemoveVisual(s.shadowVisual)
		s.shadowVisual = nil
	}
}

// resolve applies inverse-square damage around the impact point. Defenses
// report the health actually removed (capped by remaining health) and the
// sum becomes the strike's ΔR. Enemies in a live strike take the same
// per-position damage uncapped; a simulation strike touches no enemies.
func (s *strike) resolve() {
	if s.ctx.render != nil && s.payload.Explosion.Available() {
		s.ctx.render.AddVisual(s.impact.X, s.impact.Y, s.payload.Explosion)
	}

	for _, defense := range s.ctx.defenses {
		if defense == nil || defense.Health() <= 0 {
			continue
		}
		x, y := defense.Position()
		damage := s.damageAt(x, y)
		if damage <= 0 {
			continue
		}
		actual := defense.ApplyDamage(damage)
		if actual > 0 {
			s.damageDealt += actual
			s.defensesHit++
		}
	}

	if !s.ctx.live || s.ctx.enemies == nil {
		return
	}
	for _, enemy := range s.ctx.enemies.ActiveEnemies() {
		if enemy == nil || !enemy.Alive() {
			continue
		}
		x, y := enemy.Position()
		damage := s.damageAt(x, y)
		if damage <= 0 {
			continue
		}
		enemy.ApplyDamage(damage)
		s.enemiesHit++
	}
}

// damageAt computes the falloff damage for a world position, filtered by the
// payload's minimum damage threshold.
func (s *strike) damageAt(x, y float64) float64 {
	distance := math.Hypot(x-s.impact.X, y-s.impact.Y)
	if distance < minEffectiveDistance {
		distance = minEffectiveDistance
	}
	damage := s.payload.StrengthA / (distance * distance)
	if damage < s.payload.MinDamageThreshold {
		return 0
	}
	return damage
}
