package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"spuders/engine/logging"
	loggingstrikes "spuders/engine/logging/strikes"
)

// Engine owns the targeting grid, bomb calibration, the economic debt model,
// and the autonomous trigger loop. A single goroutine drives Advance; the
// engine never spawns its own.
type Engine struct {
	cfg  Config
	deps Dependencies
	pub  logging.Publisher

	rng     *rand.Rand
	sampler *gaussSampler

	mapWidth  float64
	mapHeight float64

	stamp *stampTable
	grid  *damageGrid

	strengthA float64
	payload   *StrikePayload

	tracker   *economicTracker
	telemetry *telemetryCounters

	averageYield float64
	active       *strike
	currentTick  uint64
}

// New validates the configuration, calibrates bomb strength from the current
// defense definitions, and assembles the strike payload. Configuration
// problems and missing required collaborators are the only hard errors;
// everything later degrades to "no strike this tick."
func New(cfg Config, deps Dependencies, pub logging.Publisher) (*Engine, error) {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Combat == nil {
		return nil, fmt.Errorf("engine: combat source is required")
	}
	if deps.Waves == nil {
		return nil, fmt.Errorf("engine: wave source is required")
	}
	if deps.Economy == nil {
		return nil, fmt.Errorf("engine: economy source is required")
	}
	if pub == nil {
		pub = logging.NopPublisher{}
	}

	mapWidth, mapHeight := deps.Economy.MapSizePixels()
	if mapWidth <= 0 || mapHeight <= 0 {
		return nil, fmt.Errorf("engine: map dimensions must be positive, got %gx%g", mapWidth, mapHeight)
	}

	rng := newDeterministicRNG(cfg.Seed, "engine")
	telemetry := newTelemetryCounters()

	e := &Engine{
		cfg:          cfg,
		deps:         deps,
		pub:          pub,
		rng:          rng,
		sampler:      newGaussSampler(rng),
		mapWidth:     mapWidth,
		mapHeight:    mapHeight,
		telemetry:    telemetry,
		tracker:      newEconomicTracker(deps.Waves, deps.Economy, pub, telemetry),
		averageYield: cfg.EmpiricalAverageBombDeltaR,
	}

	cellWidth := mapWidth / float64(cfg.ZBufferResolution.Width)
	cellHeight := mapHeight / float64(cfg.ZBufferResolution.Height)
	e.stamp = newStampTable(cfg.StampMapResolution.Width, cfg.StampMapResolution.Height, cellWidth, cellHeight)
	e.grid = newDamageGrid(cfg.ZBufferResolution, mapWidth, mapHeight, e.stamp)

	e.recalibrate()
	e.tracker.setBountyThreshold(e.bountyThreshold())
	return e, nil
}

// Advance drives one simulation tick. With a strike in flight it only
// advances that strike; otherwise it runs the trigger comparison and may
// dispatch. At most one strike is ever in flight, so damage application
// never contends.
func (e *Engine) Advance(dt time.Duration) {
	if e == nil || dt <= 0 {
		return
	}
	e.currentTick++
	seconds := dt.Seconds()

	if e.active != nil {
		if e.active.advance(seconds, e.currentTick) {
			e.completeStrike(e.active)
			e.active = nil
		}
	} else {
		e.maybeDispatch()
	}
	e.telemetry.RecordOutstanding(e.tracker.outstanding())
}

// maybeDispatch fires a strike when the outstanding destruction debt covers
// the expected yield of one more strike plus the configured buffer.
func (e *Engine) maybeDispatch() {
	if e.payload == nil || e.strengthA <= 0 {
		return
	}
	outstanding := e.tracker.outstanding()
	if outstanding <= 0 || outstanding < e.averageYield*(1+e.cfg.StrikeTriggerBufferScalar) {
		return
	}

	defenses := e.deps.Combat.ActiveDefenses()
	e.grid.Rebuild(defenses, e.deps.Combat, e.strengthA)
	e.telemetry.IncrementRebuilds()

	target, ok := e.grid.selectTarget(e.rng)
	if !ok {
		return
	}

	ctx := strikeContext{
		defenses: defenses,
		enemies:  e.deps.Enemies,
		render:   e.deps.Render,
		live:     true,
	}
	st, err := newStrike(e.payload, target, ctx, e.sampler, e.cfg.StrikeDelaySeconds, e.mapWidth, e.pub)
	if err != nil {
		e.telemetry.IncrementRejected()
		loggingstrikes.Rejected(context.Background(), e.pub, e.currentTick, loggingstrikes.RejectedPayload{Reason: err.Error()})
		return
	}

	e.active = st
	e.telemetry.IncrementDispatched()
	loggingstrikes.Dispatched(context.Background(), e.pub, e.currentTick, st.id, loggingstrikes.DispatchedPayload{
		TargetX:     st.target.X,
		TargetY:     st.target.Y,
		ImpactX:     st.impact.X,
		ImpactY:     st.impact.Y,
		Outstanding: outstanding,
	})
}

// completeStrike folds a resolved strike's actual ΔR back into the economic
// model: the yield average halves toward the new sample, the cumulative
// damage total grows, and the bounty batch threshold is recomputed.
func (e *Engine) completeStrike(st *strike) {
	deltaR := st.damageDealt
	e.averageYield = (e.averageYield + deltaR) / 2
	e.tracker.recordStrikeDamage(deltaR)
	e.tracker.setBountyThreshold(e.bountyThreshold())
	e.telemetry.RecordResolution(deltaR, e.averageYield, e.tracker.cumulativeBombDamage)

	loggingstrikes.Resolved(context.Background(), e.pub, e.currentTick, st.id, loggingstrikes.ResolvedPayload{
		DamageDealt:  deltaR,
		DefensesHit:  st.defensesHit,
		EnemiesHit:   st.enemiesHit,
		AverageYield: e.averageYield,
		Outstanding:  e.tracker.outstanding(),
		BountyBatch:  e.tracker.bountyThreshold,
	})
}

// bountyThreshold derives B* from the player income-scaling constant and the
// running average strike yield. A zero numerator suspends decay entirely
// until yield data improves.
func (e *Engine) bountyThreshold() float64 {
	alpha := e.deps.Economy.Alpha()
	numerator := alpha * e.averageYield
	if numerator <= epsilon {
		return math.Inf(1)
	}
	return numerator / float64(e.cfg.TargetDamageUpdatePoints)
}

// StartWave captures the wave's economic baseline. Call it when the wave
// scheduler begins wave n.
func (e *Engine) StartWave(n int) {
	if e == nil {
		return
	}
	e.tracker.startWave(n, e.totalEarningRate(), e.currentTick)
}

// RecordBountyEarned feeds one enemy kill's bounty into the decay model.
func (e *Engine) RecordBountyEarned(bounty float64) {
	if e == nil {
		return
	}
	e.tracker.recordBounty(bounty, e.currentTick)
}

// FinalizeWaveDamage flushes the partial bounty batch at the end of a wave.
func (e *Engine) FinalizeWaveDamage() {
	if e == nil {
		return
	}
	e.tracker.finalizeWave(e.currentTick)
}

// OnDefinitionsChanged recalibrates after a balance-data reload. In-flight
// strikes keep the payload they were dispatched with.
func (e *Engine) OnDefinitionsChanged() {
	if e == nil {
		return
	}
	e.recalibrate()
}

// ResetForNewGame reinitializes session-scoped state. Configuration and
// calibration persist; any in-flight strike is discarded.
func (e *Engine) ResetForNewGame() {
	if e == nil {
		return
	}
	e.active = nil
	e.currentTick = 0
	e.averageYield = e.cfg.EmpiricalAverageBombDeltaR
	e.tracker.resetForNewGame()
	e.tracker.setBountyThreshold(e.bountyThreshold())
}

// OutstandingTargetDamage reports the destruction currently owed.
func (e *Engine) OutstandingTargetDamage() float64 {
	if e == nil {
		return 0
	}
	return e.tracker.outstanding()
}

// StrikeInFlight reports whether a live strike is currently unresolved.
func (e *Engine) StrikeInFlight() bool {
	return e != nil && e.active != nil
}

// Telemetry returns a snapshot of the engine counters.
func (e *Engine) Telemetry() TelemetrySnapshot {
	if e == nil {
		return TelemetrySnapshot{}
	}
	return e.telemetry.Snapshot()
}

// BombStrength exposes the calibrated damage constant A.
func (e *Engine) BombStrength() float64 {
	if e == nil {
		return 0
	}
	return e.strengthA
}

// DispatchSimulationStrike resolves a preview strike against the supplied
// defense subset immediately, with no telegraph, no enemy damage, and no
// effect on the economic model. It returns the ΔR the strike would deal.
func (e *Engine) DispatchSimulationStrike(target WorldPoint, subset []Defense) (float64, error) {
	if e == nil {
		return 0, ErrDispatchRejected
	}
	if e.payload == nil {
		return 0, ErrPayloadNotReady
	}
	ctx := strikeContext{defenses: subset, live: false}
	st, err := newStrike(e.payload, target, ctx, e.sampler, 0, e.mapWidth, e.pub)
	if err != nil {
		e.telemetry.IncrementRejected()
		loggingstrikes.Rejected(context.Background(), e.pub, e.currentTick, loggingstrikes.RejectedPayload{Reason: err.Error()})
		return 0, err
	}
	st.resolve()
	loggingstrikes.Resolved(context.Background(), e.pub, e.currentTick, st.id, loggingstrikes.ResolvedPayload{
		DamageDealt: st.damageDealt,
		DefensesHit: st.defensesHit,
		Simulation:  true,
	})
	return st.damageDealt, nil
}

// recalibrate recomputes A from the current defense definitions and
// reassembles the strike payload. Calibration failure forces A to zero:
// strikes become economically inert but nothing crashes.
func (e *Engine) recalibrate() {
	defs := e.deps.Combat.Definitions()
	strength, err := calibrateBombStrength(defs, e.cfg.TargetMaxWipeoutRadiusPercent, e.mapWidth)
	if err != nil {
		e.strengthA = 0
		if errors.Is(err, ErrNoWearableDefense) {
			loggingstrikes.CalibrationFailed(context.Background(), e.pub, e.currentTick, err.Error())
		}
	} else {
		e.strengthA = strength
	}
	e.payload = &StrikePayload{
		StrengthA:          e.strengthA,
		ImpactStdDevPixels: e.cfg.ImpactStdDevPercentWidth * e.mapWidth,
		MinDamageThreshold: e.cfg.MinDamageThreshold,
		Shadow:             e.cfg.Shadow,
		Explosion:          e.cfg.Explosion,
	}
}

// totalEarningRate sums the earning rate of every active defense, with the
// per-type side query memoized the same way the grid rebuild batches it.
func (e *Engine) totalEarningRate() float64 {
	defenses := e.deps.Combat.ActiveDefenses()
	rates := make(map[string]float64, 8)
	total := 0.0
	for _, d := range defenses {
		if d == nil || !d.WearEnabled() {
			continue
		}
		typeID := d.TypeID()
		rate, ok := rates[typeID]
		if !ok {
			rate = e.deps.Combat.EarningRate(typeID)
			rates[typeID] = rate
		}
		if rate > 0 {
			total += rate
		}
	}
	return total
}
